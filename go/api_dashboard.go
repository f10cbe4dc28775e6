package intakeserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	departmentsports "github.com/Apurer/parcel-intake-api/internal/domains/departments/ports"
	parcelhttpmapper "github.com/Apurer/parcel-intake-api/internal/domains/parcels/adapters/http/mapper"
	parcelsports "github.com/Apurer/parcel-intake-api/internal/domains/parcels/ports"
)

type messageResponse struct {
	Message string `json:"message"`
}

// DashboardAPI serves aggregate views and maintenance operations.
type DashboardAPI struct {
	parcels     parcelsports.Service
	departments departmentsports.Service
}

func NewDashboardAPI(parcels parcelsports.Service, departments departmentsports.Service) DashboardAPI {
	return DashboardAPI{parcels: parcels, departments: departments}
}

// Get /api/dashboard/metrics
// Aggregates parcel counters per department
func (api *DashboardAPI) GetDashboardMetrics(c *gin.Context) {
	metrics, err := api.parcels.Metrics(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, parcelhttpmapper.FromMetrics(metrics))
}

// Post /api/reset
// Drops every parcel and restores default rules and departments
func (api *DashboardAPI) Reset(c *gin.Context) {
	ctx := c.Request.Context()
	if err := api.parcels.Reset(ctx); err != nil {
		respondServiceError(c, err)
		return
	}
	if api.departments != nil {
		if err := api.departments.Reset(ctx); err != nil {
			respondServiceError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, messageResponse{Message: "All data has been reset to defaults"})
}

// Get /healthz
func (api *DashboardAPI) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
