package services

import (
	"context"
	"strings"

	"github.com/dinewise/backend/internal/domain/entities"
	"github.com/dinewise/backend/internal/domain/repositories"
	"github.com/dinewise/backend/internal/infrastructure/observability"
	apperrors "github.com/dinewise/backend/pkg/errors"
)

// ReviewService is the write owner for reviews
type ReviewService struct {
	repo repositories.ReviewRepository
}

// NewReviewService creates a new review service
func NewReviewService(repo repositories.ReviewRepository) *ReviewService {
	return &ReviewService{repo: repo}
}

// Submit creates or replaces the user's review of a restaurant
func (s *ReviewService) Submit(ctx context.Context, userID, restaurantID, text string) (*entities.ReviewSubmission, error) {
	if userID == "" {
		return nil, apperrors.NewUnauthorizedError("authentication required")
	}
	restaurantID = strings.TrimSpace(restaurantID)
	if restaurantID == "" {
		return nil, apperrors.NewValidationError("restaurant_id is required")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.NewValidationError("review_text is required")
	}

	submission, err := s.repo.Upsert(ctx, &entities.Review{
		UserID:       userID,
		RestaurantID: restaurantID,
		Text:         text,
	})
	if err != nil {
		return nil, err
	}

	observability.LoggerFromContext(ctx).Info().
		Str("restaurant_id", restaurantID).
		Str("review_id", submission.ReviewID).
		Bool("created", submission.Created).
		Msg("review submitted")
	return submission, nil
}

// MarkHelpful increments a review's helpful counter. The same caller may
// count more than once.
func (s *ReviewService) MarkHelpful(ctx context.Context, reviewID string) (int, error) {
	if strings.TrimSpace(reviewID) == "" {
		return 0, apperrors.NewValidationError("review id is required")
	}
	return s.repo.IncrementHelpful(ctx, reviewID)
}

// GetRestaurantReviews lists a restaurant's reviews, newest first
func (s *ReviewService) GetRestaurantReviews(ctx context.Context, restaurantID string) ([]*entities.Review, error) {
	if strings.TrimSpace(restaurantID) == "" {
		return nil, apperrors.NewValidationError("restaurant id is required")
	}
	return s.repo.ListByRestaurant(ctx, restaurantID)
}
