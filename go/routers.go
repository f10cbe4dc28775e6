package intakeserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds routes to an existing gin engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		switch route.Method {
		case http.MethodGet:
			router.GET(route.Pattern, route.HandlerFunc)
		case http.MethodPost:
			router.POST(route.Pattern, route.HandlerFunc)
		case http.MethodPut:
			router.PUT(route.Pattern, route.HandlerFunc)
		case http.MethodPatch:
			router.PATCH(route.Pattern, route.HandlerFunc)
		case http.MethodDelete:
			router.DELETE(route.Pattern, route.HandlerFunc)
		}
	}
	return router
}

// DefaultHandleFunc answers routes whose handler is not wired.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

type ApiHandleFunctions struct {
	// Routes for the ParcelAPI part of the API
	ParcelAPI ParcelAPI
	// Routes for the BusinessRulesAPI part of the API
	BusinessRulesAPI BusinessRulesAPI
	// Routes for the DepartmentAPI part of the API
	DepartmentAPI DepartmentAPI
	// Routes for the DashboardAPI part of the API
	DashboardAPI DashboardAPI
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{
			"UploadXML",
			http.MethodPost,
			"/api/parcels/upload-xml",
			handleFunctions.ParcelAPI.UploadXML,
		},
		{
			"ListParcels",
			http.MethodGet,
			"/api/parcels",
			handleFunctions.ParcelAPI.ListParcels,
		},
		{
			"GetParcel",
			http.MethodGet,
			"/api/parcels/:parcelId",
			handleFunctions.ParcelAPI.GetParcel,
		},
		{
			"ApproveInsurance",
			http.MethodPost,
			"/api/parcels/:parcelId/approve-insurance",
			handleFunctions.ParcelAPI.ApproveInsurance,
		},
		{
			"CompleteParcel",
			http.MethodPost,
			"/api/parcels/:parcelId/complete",
			handleFunctions.ParcelAPI.CompleteParcel,
		},
		{
			"GetBusinessRules",
			http.MethodGet,
			"/api/business-rules",
			handleFunctions.BusinessRulesAPI.GetBusinessRules,
		},
		{
			"UpdateBusinessRules",
			http.MethodPut,
			"/api/business-rules",
			handleFunctions.BusinessRulesAPI.UpdateBusinessRules,
		},
		{
			"ListDepartments",
			http.MethodGet,
			"/api/departments",
			handleFunctions.DepartmentAPI.ListDepartments,
		},
		{
			"CreateDepartment",
			http.MethodPost,
			"/api/departments",
			handleFunctions.DepartmentAPI.CreateDepartment,
		},
		{
			"DeleteDepartment",
			http.MethodDelete,
			"/api/departments/:id",
			handleFunctions.DepartmentAPI.DeleteDepartment,
		},
		{
			"GetDashboardMetrics",
			http.MethodGet,
			"/api/dashboard/metrics",
			handleFunctions.DashboardAPI.GetDashboardMetrics,
		},
		{
			"Reset",
			http.MethodPost,
			"/api/reset",
			handleFunctions.DashboardAPI.Reset,
		},
		{
			"Healthz",
			http.MethodGet,
			"/healthz",
			handleFunctions.DashboardAPI.Healthz,
		},
	}
}
