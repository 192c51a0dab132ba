package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/brave-warrior/routecache/internal/application"
	"github.com/brave-warrior/routecache/internal/response"
)

// RouteHandler handles HTTP requests for cached routes.
type RouteHandler struct {
	service *application.RouteService
}

// NewRouteHandler creates a new RouteHandler.
func NewRouteHandler(service *application.RouteService) *RouteHandler {
	return &RouteHandler{service: service}
}

// RegisterRoutes registers all route cache routes.
func (h *RouteHandler) RegisterRoutes(r *gin.RouterGroup) {
	routes := r.Group("/api/v1/routes")
	{
		routes.GET("", h.ListRoutes)
		routes.DELETE("", h.ClearRoutes)
		routes.POST("/refresh", h.RefreshRoutes)
		routes.GET("/:id", h.GetRoute)
		routes.GET("/:id/path", h.RoutePath)
		routes.GET("/:id/steps/:position/path", h.StepPath)
	}
}

// RefreshRoutes handles POST /api/v1/routes/refresh.
func (h *RouteHandler) RefreshRoutes(c *gin.Context) {
	var req application.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.RefreshRoutes(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListRoutes handles GET /api/v1/routes.
func (h *RouteHandler) ListRoutes(c *gin.Context) {
	result, err := h.service.ListRoutes(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetRoute handles GET /api/v1/routes/:id.
func (h *RouteHandler) GetRoute(c *gin.Context) {
	id, ok := routeID(c)
	if !ok {
		return
	}

	result, err := h.service.GetRoute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// RoutePath handles GET /api/v1/routes/:id/path.
func (h *RouteHandler) RoutePath(c *gin.Context) {
	id, ok := routeID(c)
	if !ok {
		return
	}

	result, err := h.service.RoutePath(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// StepPath handles GET /api/v1/routes/:id/steps/:position/path.
func (h *RouteHandler) StepPath(c *gin.Context) {
	id, ok := routeID(c)
	if !ok {
		return
	}
	position, err := strconv.Atoi(c.Param("position"))
	if err != nil {
		response.BadRequest(c, "invalid step position")
		return
	}

	result, err := h.service.StepPath(c.Request.Context(), id, position)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ClearRoutes handles DELETE /api/v1/routes.
func (h *RouteHandler) ClearRoutes(c *gin.Context) {
	if err := h.service.ClearRoutes(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "route cache cleared"})
}

func routeID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "invalid route ID")
		return 0, false
	}
	return id, true
}
