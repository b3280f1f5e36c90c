package handlers

import (
	"context"
	"net/http"

	"github.com/dinewise/backend/internal/api/middleware"
	"github.com/dinewise/backend/internal/domain/entities"
)

// ReviewService defines the review operations used by the handler
type ReviewService interface {
	Submit(ctx context.Context, userID, restaurantID, text string) (*entities.ReviewSubmission, error)
	MarkHelpful(ctx context.Context, reviewID string) (int, error)
	GetRestaurantReviews(ctx context.Context, restaurantID string) ([]*entities.Review, error)
}

// ReviewHandler handles review-related HTTP requests
type ReviewHandler struct {
	service ReviewService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(service ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

type submitReviewRequest struct {
	RestaurantID string `json:"restaurant_id" validate:"required"`
	ReviewText   string `json:"review_text" validate:"required"`
}

// SubmitReview handles POST /api/reviews
func (h *ReviewHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	var req submitReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, r, err)
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	submission, err := h.service.Submit(r.Context(), userID, req.RestaurantID, req.ReviewText)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	message := "Review updated successfully"
	if submission.Created {
		message = "Review created successfully"
	}
	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"message":   message,
		"review_id": submission.ReviewID,
		"created":   submission.Created,
	})
}

// GetRestaurantReviews handles GET /api/reviews/restaurant/{id}
func (h *ReviewHandler) GetRestaurantReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.service.GetRestaurantReviews(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, reviews)
}

// MarkHelpful handles POST /api/reviews/{id}/helpful
func (h *ReviewHandler) MarkHelpful(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.MarkHelpful(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":       "Review marked as helpful",
		"helpful_count": count,
	})
}
