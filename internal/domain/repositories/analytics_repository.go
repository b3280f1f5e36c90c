package repositories

import (
	"context"

	"github.com/dinewise/backend/internal/domain/entities"
)

// AnalyticsRepository defines read-only rollups over the catalog
type AnalyticsRepository interface {
	// TopRated retrieves restaurants with at least minVotes votes by
	// avg_rating desc, votes desc
	TopRated(ctx context.Context, minVotes, limit int) ([]*entities.TopRatedRestaurant, error)

	// CityStats summarizes every city, ordered by city name
	CityStats(ctx context.Context) ([]*entities.CityStats, error)
}
