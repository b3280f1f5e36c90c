package services

import (
	"context"
	"time"

	"github.com/dinewise/backend/internal/domain/repositories"
	"github.com/dinewise/backend/internal/infrastructure/observability"
)

const warmPages = 3

// CacheWarmingService preloads the most requested catalog reads through the
// cached repository so they land under the current generation
type CacheWarmingService struct {
	restaurants repositories.RestaurantRepository
}

// NewCacheWarmingService creates a new cache warming service
func NewCacheWarmingService(restaurants repositories.RestaurantRepository) *CacheWarmingService {
	return &CacheWarmingService{restaurants: restaurants}
}

// WarmCache loads cities, categories and the first listing pages.
// Individual failures are logged and skipped.
func (s *CacheWarmingService) WarmCache(ctx context.Context) {
	logger := observability.LoggerFromContext(ctx)
	start := time.Now()

	if _, err := s.restaurants.ListCities(ctx); err != nil {
		logger.Warn().Err(err).Msg("failed to warm cities")
	}
	if _, err := s.restaurants.ListCategories(ctx); err != nil {
		logger.Warn().Err(err).Msg("failed to warm categories")
	}

	for page := 0; page < warmPages; page++ {
		filter := repositories.RestaurantFilter{
			Limit:  repositories.DefaultListLimit,
			Offset: page * repositories.DefaultListLimit,
		}
		if _, err := s.restaurants.List(ctx, filter); err != nil {
			logger.Warn().Err(err).Int("page", page).Msg("failed to warm restaurant list")
		}
	}

	logger.Info().Dur("duration", time.Since(start)).Msg("cache warming completed")
}

// StartPeriodicWarming warms once, then every interval until ctx is done.
// A non-positive interval warms only once.
func (s *CacheWarmingService) StartPeriodicWarming(ctx context.Context, interval time.Duration) {
	s.WarmCache(ctx)
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				observability.GetLogger().Info().Msg("stopping cache warming service")
				return
			case <-ticker.C:
				s.WarmCache(ctx)
			}
		}
	}()
	observability.GetLogger().Info().Dur("interval", interval).Msg("started periodic cache warming")
}
