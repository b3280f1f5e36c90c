package handlers

import (
	"context"
	"net/http"

	"github.com/dinewise/backend/internal/api/middleware"
	"github.com/dinewise/backend/internal/domain/entities"
)

// RatingService defines the rating operations used by the handler
type RatingService interface {
	Submit(ctx context.Context, userID, restaurantID string, value float64) (*entities.RatingSubmission, error)
	GetUserRatings(ctx context.Context, userID string) ([]*entities.Rating, error)
	GetDistribution(ctx context.Context, restaurantID string) (*entities.RatingDistribution, error)
}

// RatingHandler handles rating-related HTTP requests
type RatingHandler struct {
	service RatingService
}

// NewRatingHandler creates a new rating handler
func NewRatingHandler(service RatingService) *RatingHandler {
	return &RatingHandler{service: service}
}

type submitRatingRequest struct {
	RestaurantID string   `json:"restaurant_id" validate:"required"`
	RatingValue  *float64 `json:"rating_value" validate:"required,gte=1,lte=5"`
}

type submitRatingResponse struct {
	Message     string  `json:"message"`
	RatingID    string  `json:"rating_id"`
	RatingValue float64 `json:"rating_value"`
	Created     bool    `json:"created"`
	AvgRating   float64 `json:"avg_rating"`
	Votes       int     `json:"votes"`
}

// SubmitRating handles POST /api/ratings
func (h *RatingHandler) SubmitRating(w http.ResponseWriter, r *http.Request) {
	var req submitRatingRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, r, err)
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	submission, err := h.service.Submit(r.Context(), userID, req.RestaurantID, *req.RatingValue)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	message := "Rating updated successfully"
	if submission.Created {
		message = "Rating created successfully"
	}

	respondWithJSON(w, http.StatusCreated, submitRatingResponse{
		Message:     message,
		RatingID:    submission.RatingID,
		RatingValue: submission.Value,
		Created:     submission.Created,
		AvgRating:   submission.Aggregate.AvgRating,
		Votes:       submission.Aggregate.Votes,
	})
}

// GetUserRatings handles GET /api/ratings/user
func (h *RatingHandler) GetUserRatings(w http.ResponseWriter, r *http.Request) {
	ratings, err := h.service.GetUserRatings(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, ratings)
}

// GetRestaurantRatings handles GET /api/ratings/restaurant/{id}
func (h *RatingHandler) GetRestaurantRatings(w http.ResponseWriter, r *http.Request) {
	distribution, err := h.service.GetDistribution(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, distribution)
}
