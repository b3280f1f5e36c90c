package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dinewise/backend/internal/domain/providers"
	"github.com/dinewise/backend/internal/infrastructure/observability"
)

const sweepTimeout = 10 * time.Second

// CacheInvalidationService retires cached catalog reads. Invalidation bumps
// the catalog generation so older entries are never read again, then
// deletes them in the background.
type CacheInvalidationService struct {
	cache  providers.CacheProvider
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewCacheInvalidationService creates a new cache invalidation service
func NewCacheInvalidationService(cache providers.CacheProvider) *CacheInvalidationService {
	ctx, cancel := context.WithCancel(context.Background())
	return &CacheInvalidationService{
		cache:  cache,
		ctx:    ctx,
		cancel: cancel,
	}
}

// InvalidateCatalog bumps the catalog generation. It returns once the bump
// is visible to every reader. When the bump fails, every cached catalog
// entry is purged instead; an error means neither succeeded and cached
// reads may still be stale.
func (s *CacheInvalidationService) InvalidateCatalog(ctx context.Context) error {
	gen, err := s.cache.Incr(ctx, providers.CatalogGenerationKey)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("catalog generation bump failed, purging entries")
		if purgeErr := s.purgeEntries(ctx); purgeErr != nil {
			return fmt.Errorf("failed to bump catalog generation: %w", errors.Join(err, purgeErr))
		}
		return nil
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.sweep(gen - 1)
	}()
	return nil
}

// purgeEntries deletes every cached catalog entry of every generation. The
// generation counter itself is kept so it never moves backwards onto keys
// that may still hold old values.
func (s *CacheInvalidationService) purgeEntries(ctx context.Context) error {
	if err := s.cache.DeletePattern(ctx, providers.CatalogEntryPattern); err != nil {
		return fmt.Errorf("failed to purge catalog cache: %w", err)
	}
	observability.LoggerFromContext(ctx).Info().Msg("catalog cache purged")
	return nil
}

func (s *CacheInvalidationService) sweep(generation int64) {
	if generation < 0 {
		return
	}
	ctx, cancel := context.WithTimeout(s.ctx, sweepTimeout)
	defer cancel()

	pattern := providers.CatalogKey(generation) + ":*"
	if err := s.cache.DeletePattern(ctx, pattern); err != nil {
		observability.GetLogger().Warn().Err(err).Str("pattern", pattern).Msg("failed to sweep stale catalog entries")
	}
}

// Stop cancels pending sweeps and waits for them to return
func (s *CacheInvalidationService) Stop() {
	s.cancel()
	s.wg.Wait()
	observability.GetLogger().Info().Msg("cache invalidation service stopped")
}
