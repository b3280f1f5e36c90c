package services

import (
	"context"
	"strings"

	"github.com/dinewise/backend/internal/domain/entities"
	"github.com/dinewise/backend/internal/domain/providers"
	"github.com/dinewise/backend/internal/domain/repositories"
	"github.com/dinewise/backend/internal/infrastructure/observability"
	apperrors "github.com/dinewise/backend/pkg/errors"
)

// CatalogInvalidator retires cached catalog reads after a write
type CatalogInvalidator interface {
	InvalidateCatalog(ctx context.Context) error
}

// RatingService is the write owner for ratings. A submission and the
// restaurant aggregate it changes are committed together by the repository.
type RatingService struct {
	repo        repositories.RatingRepository
	invalidator CatalogInvalidator
	eventBus    providers.EventBus
	metrics     *observability.Metrics
}

// NewRatingService creates a new rating service. invalidator and eventBus
// may be nil.
func NewRatingService(
	repo repositories.RatingRepository,
	invalidator CatalogInvalidator,
	eventBus providers.EventBus,
	metrics *observability.Metrics,
) *RatingService {
	return &RatingService{
		repo:        repo,
		invalidator: invalidator,
		eventBus:    eventBus,
		metrics:     metrics,
	}
}

// Submit creates or replaces the user's rating of a restaurant
func (s *RatingService) Submit(ctx context.Context, userID, restaurantID string, value float64) (*entities.RatingSubmission, error) {
	ctx, span := observability.StartSpan(ctx, "RatingService.Submit")
	defer span.End()

	if userID == "" {
		return nil, apperrors.NewUnauthorizedError("authentication required")
	}
	restaurantID = strings.TrimSpace(restaurantID)
	if restaurantID == "" {
		return nil, apperrors.NewValidationError("restaurant_id is required")
	}
	if !entities.ValidRatingValue(value) {
		return nil, apperrors.NewValidationError("rating_value must be between 1 and 5")
	}

	submission, err := s.repo.Submit(ctx, &entities.Rating{
		UserID:       userID,
		RestaurantID: restaurantID,
		Value:        value,
	})
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	logger := observability.LoggerFromContext(ctx)
	if s.invalidator != nil {
		// The write is committed, but cached reads would keep the old
		// aggregate. Resubmitting is an idempotent upsert.
		if err := s.invalidator.InvalidateCatalog(ctx); err != nil {
			observability.RecordError(span, err)
			logger.Error().Err(err).Str("restaurant_id", restaurantID).Msg("failed to invalidate catalog cache")
			return nil, apperrors.NewStorageError("rating saved but cached reads could not be refreshed", err)
		}
	}

	if s.eventBus != nil {
		event := entities.NewRatingEvent(submission)
		if err := s.eventBus.Publish(ctx, providers.EventChannelRatingUpdates, event); err != nil {
			logger.Warn().Err(err).Str("restaurant_id", restaurantID).Msg("failed to publish rating event")
		}
	}

	observability.RecordRatingSubmit(ctx, s.metrics, submission.Created)
	logger.Info().
		Str("restaurant_id", restaurantID).
		Bool("created", submission.Created).
		Float64("avg_rating", submission.Aggregate.AvgRating).
		Int("votes", submission.Aggregate.Votes).
		Msg("rating submitted")

	return submission, nil
}

// GetUserRatings lists the user's ratings, newest first
func (s *RatingService) GetUserRatings(ctx context.Context, userID string) ([]*entities.Rating, error) {
	if userID == "" {
		return nil, apperrors.NewUnauthorizedError("authentication required")
	}
	return s.repo.ListByUser(ctx, userID)
}

// GetDistribution returns the histogram of a restaurant's ratings. A
// restaurant without ratings yields a zero-filled histogram.
func (s *RatingService) GetDistribution(ctx context.Context, restaurantID string) (*entities.RatingDistribution, error) {
	if strings.TrimSpace(restaurantID) == "" {
		return nil, apperrors.NewValidationError("restaurant id is required")
	}
	return s.repo.Distribution(ctx, restaurantID)
}
