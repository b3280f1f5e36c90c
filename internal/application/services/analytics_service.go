package services

import (
	"context"

	"github.com/dinewise/backend/internal/domain/entities"
	"github.com/dinewise/backend/internal/domain/repositories"
	"github.com/dinewise/backend/pkg/config"
)

// AnalyticsService serves read-only rollups over the catalog
type AnalyticsService struct {
	repo     repositories.AnalyticsRepository
	minVotes int
	limit    int
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(repo repositories.AnalyticsRepository, cfg config.AnalyticsConfig) *AnalyticsService {
	return &AnalyticsService{
		repo:     repo,
		minVotes: cfg.TopRatedMinVotes,
		limit:    cfg.TopRatedLimit,
	}
}

// TopRated returns the leaderboard. Restaurants under the vote floor are
// left out so a single vote cannot top it.
func (s *AnalyticsService) TopRated(ctx context.Context) ([]*entities.TopRatedRestaurant, error) {
	return s.repo.TopRated(ctx, s.minVotes, s.limit)
}

// CityStats summarizes each city
func (s *AnalyticsService) CityStats(ctx context.Context) ([]*entities.CityStats, error) {
	return s.repo.CityStats(ctx)
}
