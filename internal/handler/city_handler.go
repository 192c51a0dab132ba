package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/brave-warrior/routecache/internal/application"
	"github.com/brave-warrior/routecache/internal/response"
)

// CityHandler handles place suggestion requests.
type CityHandler struct {
	service *application.CityService
}

// NewCityHandler creates a new CityHandler.
func NewCityHandler(service *application.CityService) *CityHandler {
	return &CityHandler{service: service}
}

// RegisterRoutes registers the city routes.
func (h *CityHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/api/v1/cities", h.SuggestCities)
}

type suggestQuery struct {
	Input string `form:"input" binding:"required,max=200"`
}

// SuggestCities handles GET /api/v1/cities?input=.
func (h *CityHandler) SuggestCities(c *gin.Context) {
	var q suggestQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "input query parameter is required")
		return
	}

	result, err := h.service.SuggestCities(c.Request.Context(), q.Input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
