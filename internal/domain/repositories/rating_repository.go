package repositories

import (
	"context"

	"github.com/dinewise/backend/internal/domain/entities"
)

// RatingRepository is the storage side of the rating ledger
type RatingRepository interface {
	// Submit upserts the rating keyed by (user, restaurant) and recomputes the
	// restaurant's aggregate. Both happen atomically or not at all.
	Submit(ctx context.Context, rating *entities.Rating) (*entities.RatingSubmission, error)

	// ListByUser retrieves a user's ratings, newest first
	ListByUser(ctx context.Context, userID string) ([]*entities.Rating, error)

	// Distribution summarizes the ratings of one restaurant
	Distribution(ctx context.Context, restaurantID string) (*entities.RatingDistribution, error)
}
