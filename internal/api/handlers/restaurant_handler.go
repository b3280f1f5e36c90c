package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/dinewise/backend/internal/domain/entities"
	"github.com/dinewise/backend/internal/domain/repositories"
	apperrors "github.com/dinewise/backend/pkg/errors"
)

// RestaurantService defines the catalog operations used by the handler
type RestaurantService interface {
	ListRestaurants(ctx context.Context, filter repositories.RestaurantFilter) (*entities.RestaurantPage, error)
	GetRestaurant(ctx context.Context, id string) (*entities.RestaurantDetail, error)
	Search(ctx context.Context, params repositories.SearchParams) ([]*entities.RestaurantSummary, error)
	Cities(ctx context.Context) ([]*entities.CityCount, error)
	Categories(ctx context.Context) ([]*entities.Category, error)
}

// RestaurantHandler handles catalog HTTP requests
type RestaurantHandler struct {
	service RestaurantService
}

// NewRestaurantHandler creates a new restaurant handler
func NewRestaurantHandler(service RestaurantService) *RestaurantHandler {
	return &RestaurantHandler{service: service}
}

// ListRestaurants handles GET /api/restaurants
func (h *RestaurantHandler) ListRestaurants(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	minRating, err := queryFloat(r, "min_rating", 0)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	page, err := h.service.ListRestaurants(r.Context(), repositories.RestaurantFilter{
		City:      query.Get("city"),
		Cuisine:   query.Get("cuisine"),
		MinRating: minRating,
		Search:    query.Get("search"),
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, page)
}

// GetRestaurant handles GET /api/restaurants/{id}
func (h *RestaurantHandler) GetRestaurant(w http.ResponseWriter, r *http.Request) {
	detail, err := h.service.GetRestaurant(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, detail)
}

// SearchRestaurants handles GET /api/restaurants/search
func (h *RestaurantHandler) SearchRestaurants(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	minRating, err := queryFloat(r, "min_rating", 0)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	params := repositories.SearchParams{
		Query:     query.Get("q"),
		City:      query.Get("city"),
		Cuisine:   query.Get("cuisine"),
		MinRating: minRating,
	}
	if raw := strings.TrimSpace(query.Get("max_price")); raw != "" {
		maxPrice, err := strconv.Atoi(raw)
		if err != nil {
			respondWithError(w, r, apperrors.NewValidationError("max_price must be an integer"))
			return
		}
		params.MaxPrice = &maxPrice
	}

	results, err := h.service.Search(r.Context(), params)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"results": results,
		"count":   len(results),
	})
}

// GetCities handles GET /api/restaurants/cities
func (h *RestaurantHandler) GetCities(w http.ResponseWriter, r *http.Request) {
	cities, err := h.service.Cities(r.Context())
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, cities)
}

// GetCategories handles GET /api/restaurants/categories
func (h *RestaurantHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.Categories(r.Context())
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, categories)
}
