package intakeserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	parcelhttpmapper "github.com/Apurer/parcel-intake-api/internal/domains/parcels/adapters/http/mapper"
	parcelsports "github.com/Apurer/parcel-intake-api/internal/domains/parcels/ports"
)

// BusinessRulesAPI exposes the routing thresholds.
type BusinessRulesAPI struct {
	service parcelsports.Service
}

func NewBusinessRulesAPI(service parcelsports.Service) BusinessRulesAPI {
	return BusinessRulesAPI{service: service}
}

// Get /api/business-rules
// Returns the active rule set
func (api *BusinessRulesAPI) GetBusinessRules(c *gin.Context) {
	rules, err := api.service.Rules(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, parcelhttpmapper.FromRuleSet(rules))
}

// Put /api/business-rules
// Replaces the active rule set; parcels already routed are untouched
func (api *BusinessRulesAPI) UpdateBusinessRules(c *gin.Context) {
	var payload parcelhttpmapper.BusinessRules
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	rules, err := parcelhttpmapper.ToRuleSet(payload)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	updated, err := api.service.ReplaceRules(c.Request.Context(), rules)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, parcelhttpmapper.FromRuleSet(updated))
}
