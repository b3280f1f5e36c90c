package repositories

import (
	"context"

	"github.com/dinewise/backend/internal/domain/entities"
)

// ReviewRepository is the storage side of the review ledger
type ReviewRepository interface {
	// Upsert creates or replaces the text of the review keyed by (user, restaurant)
	Upsert(ctx context.Context, review *entities.Review) (*entities.ReviewSubmission, error)

	// IncrementHelpful bumps the helpful counter and returns the new value
	IncrementHelpful(ctx context.Context, reviewID string) (int, error)

	// ListByRestaurant retrieves reviews of a restaurant, newest first
	ListByRestaurant(ctx context.Context, restaurantID string) ([]*entities.Review, error)

	// ListByUser retrieves reviews written by a user, newest first
	ListByUser(ctx context.Context, userID string) ([]*entities.Review, error)

	// CountByRestaurant counts the reviews of a restaurant
	CountByRestaurant(ctx context.Context, restaurantID string) (int, error)
}
