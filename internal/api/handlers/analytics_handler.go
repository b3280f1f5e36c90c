package handlers

import (
	"context"
	"net/http"

	"github.com/dinewise/backend/internal/domain/entities"
)

// AnalyticsService defines the rollups used by the handler
type AnalyticsService interface {
	TopRated(ctx context.Context) ([]*entities.TopRatedRestaurant, error)
	CityStats(ctx context.Context) ([]*entities.CityStats, error)
}

// AnalyticsHandler handles analytics HTTP requests
type AnalyticsHandler struct {
	service AnalyticsService
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(service AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// GetTopRated handles GET /api/analytics/top-rated
func (h *AnalyticsHandler) GetTopRated(w http.ResponseWriter, r *http.Request) {
	top, err := h.service.TopRated(r.Context())
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, top)
}

// GetCityStats handles GET /api/analytics/city-stats
func (h *AnalyticsHandler) GetCityStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.CityStats(r.Context())
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, stats)
}
