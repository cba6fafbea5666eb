package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/gravadigital/huddle-api/internal/logger"
	"github.com/gravadigital/huddle-api/internal/recommend"
	"github.com/gravadigital/huddle-api/internal/response"
)

type PlacesHandler struct {
	provider recommend.Provider
	log      *log.Logger
}

func NewPlacesHandler(provider recommend.Provider) *PlacesHandler {
	if provider == nil {
		provider = recommend.Unconfigured{}
	}
	return &PlacesHandler{
		provider: provider,
		log:      logger.Handler("places"),
	}
}

// SearchLocations handles GET /api/places/search-locations?query=
func (h *PlacesHandler) SearchLocations(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		response.BadRequestError(c, "Query parameter is required")
		return
	}

	locations, err := h.provider.SearchLocations(c.Request.Context(), query)
	if err != nil {
		h.providerError(c, err, "Failed to search locations")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"locations": locations})
}

// GetRecommendations handles POST /api/places/recommendations
func (h *PlacesHandler) GetRecommendations(c *gin.Context) {
	var req recommend.RecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "Invalid request payload")
		return
	}

	if req.Location.Lat == 0 || req.Location.Lng == 0 || strings.TrimSpace(req.Type) == "" {
		response.BadRequestError(c, "Location and type are required")
		return
	}

	places, err := h.provider.GetRecommendations(c.Request.Context(), req)
	if err != nil {
		h.providerError(c, err, "Failed to get recommendations")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"recommendations": places})
}

func (h *PlacesHandler) providerError(c *gin.Context, err error, message string) {
	if errors.Is(err, recommend.ErrNotConfigured) {
		response.ServiceUnavailableError(c, "Place recommendations are not configured")
		return
	}
	h.log.Error(message, "error", err)
	response.InternalServerError(c, message)
}
