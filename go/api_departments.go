package intakeserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	departmenthttpmapper "github.com/Apurer/parcel-intake-api/internal/domains/departments/adapters/http/mapper"
	departmentsports "github.com/Apurer/parcel-intake-api/internal/domains/departments/ports"
)

// DepartmentAPI wires HTTP transport with the department catalogue.
type DepartmentAPI struct {
	service departmentsports.Service
}

func NewDepartmentAPI(service departmentsports.Service) DepartmentAPI {
	return DepartmentAPI{service: service}
}

// Get /api/departments
// Lists the department catalogue
func (api *DepartmentAPI) ListDepartments(c *gin.Context) {
	list, err := api.service.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, departmenthttpmapper.FromDomainList(list))
}

// Post /api/departments
// Creates a custom department
func (api *DepartmentAPI) CreateDepartment(c *gin.Context) {
	var payload departmenthttpmapper.CreateDepartment
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	created, err := api.service.Create(c.Request.Context(), departmenthttpmapper.ToCreateInput(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, departmenthttpmapper.FromDomain(created))
}

// Delete /api/departments/:id
// Deletes a custom department
func (api *DepartmentAPI) DeleteDepartment(c *gin.Context) {
	if err := api.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: "Department deleted successfully"})
}
