package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/brave-warrior/routecache/internal/application"
	"github.com/brave-warrior/routecache/internal/response"
)

// AdminHandler exposes cache maintenance endpoints.
type AdminHandler struct {
	service *application.RouteService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(service *application.RouteService) *AdminHandler {
	return &AdminHandler{service: service}
}

// RegisterRoutes registers admin routes.
func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup) {
	admin := r.Group("/api/v1/admin")
	{
		admin.GET("/stats", h.CacheStats)
	}
}

// CacheStats handles GET /api/v1/admin/stats.
func (h *AdminHandler) CacheStats(c *gin.Context) {
	stats, err := h.service.CacheStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, stats)
}
