package database

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/dinewise/backend/internal/domain/entities"
	"github.com/dinewise/backend/internal/domain/providers"
	"github.com/dinewise/backend/internal/domain/repositories"
	"github.com/dinewise/backend/internal/infrastructure/observability"
	"github.com/dinewise/backend/pkg/config"
)

// CachedRestaurantAdapter wraps a RestaurantRepository with a read-through
// cache. Keys live inside the current catalog generation: once a rating
// write bumps the generation, entries computed before it are never read
// again and expire on their own.
type CachedRestaurantAdapter struct {
	adapter repositories.RestaurantRepository
	cache   providers.CacheProvider
	ttl     config.CacheConfig
	metrics *observability.Metrics
}

// NewCachedRestaurantAdapter creates a new cached restaurant adapter
func NewCachedRestaurantAdapter(
	adapter repositories.RestaurantRepository,
	cache providers.CacheProvider,
	ttl config.CacheConfig,
	metrics *observability.Metrics,
) repositories.RestaurantRepository {
	return &CachedRestaurantAdapter{
		adapter: adapter,
		cache:   cache,
		ttl:     ttl,
		metrics: metrics,
	}
}

// generation reads the catalog generation. ok is false when the cache is
// unusable and reads should go straight to the database.
func (a *CachedRestaurantAdapter) generation(ctx context.Context) (int64, bool) {
	raw, err := a.cache.Get(ctx, providers.CatalogGenerationKey)
	if errors.Is(err, providers.ErrCacheMiss) {
		return 0, true
	}
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("catalog cache unavailable, reading through")
		return 0, false
	}
	gen, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, false
	}
	return gen, true
}

func readThrough[T any](
	ctx context.Context,
	a *CachedRestaurantAdapter,
	name string,
	ttl time.Duration,
	keyParts []string,
	load func(ctx context.Context) (T, error),
) (T, error) {
	gen, ok := a.generation(ctx)
	if !ok {
		return load(ctx)
	}
	key := providers.CatalogKey(gen, append([]string{name}, keyParts...)...)

	if cached, err := a.cache.Get(ctx, key); err == nil {
		var value T
		if err := json.Unmarshal(cached, &value); err == nil {
			observability.RecordCacheHit(ctx, a.metrics, name)
			return value, nil
		}
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("key", key).Msg("failed to unmarshal cached value")
	}
	observability.RecordCacheMiss(ctx, a.metrics, name)

	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	// Populate asynchronously; a stale value can only land under an old
	// generation's key.
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		data, err := json.Marshal(value)
		if err != nil {
			return
		}
		if err := a.cache.Set(bgCtx, key, data, int(ttl.Seconds())); err != nil {
			observability.GetLogger().Warn().Err(err).Str("key", key).Msg("failed to populate cache")
		}
	}()

	return value, nil
}

// GetByID retrieves a restaurant by ID with caching
func (a *CachedRestaurantAdapter) GetByID(ctx context.Context, id string) (*entities.Restaurant, error) {
	return readThrough(ctx, a, "restaurant", a.ttl.RestaurantTTL, []string{id},
		func(ctx context.Context) (*entities.Restaurant, error) {
			return a.adapter.GetByID(ctx, id)
		})
}

// List retrieves a filtered window of restaurants with caching
func (a *CachedRestaurantAdapter) List(ctx context.Context, filter repositories.RestaurantFilter) ([]*entities.Restaurant, error) {
	return readThrough(ctx, a, "list", a.ttl.ListTTL, []string{cacheKeyOf(filter)},
		func(ctx context.Context) ([]*entities.Restaurant, error) {
			return a.adapter.List(ctx, filter)
		})
}

// Search searches restaurants with caching
func (a *CachedRestaurantAdapter) Search(ctx context.Context, params repositories.SearchParams) ([]*entities.RestaurantSummary, error) {
	return readThrough(ctx, a, "search", a.ttl.ListTTL, []string{cacheKeyOf(params)},
		func(ctx context.Context) ([]*entities.RestaurantSummary, error) {
			return a.adapter.Search(ctx, params)
		})
}

// CuisinesByRestaurantIDs is not cached; it is batched by the service instead
func (a *CachedRestaurantAdapter) CuisinesByRestaurantIDs(ctx context.Context, ids []string) (map[string][]string, error) {
	return a.adapter.CuisinesByRestaurantIDs(ctx, ids)
}

// ListCities counts restaurants per city with caching
func (a *CachedRestaurantAdapter) ListCities(ctx context.Context) ([]*entities.CityCount, error) {
	return readThrough(ctx, a, "cities", a.ttl.ListTTL, nil, a.adapter.ListCities)
}

// ListCategories counts restaurants per category with caching
func (a *CachedRestaurantAdapter) ListCategories(ctx context.Context) ([]*entities.Category, error) {
	return readThrough(ctx, a, "categories", a.ttl.ListTTL, nil, a.adapter.ListCategories)
}

func cacheKeyOf(v interface{}) string {
	data, _ := json.Marshal(v)
	return string(data)
}
