package providers

import (
	"context"
	"errors"
	"fmt"
)

// ErrCacheMiss is returned by Get when the key does not exist
var ErrCacheMiss = errors.New("cache miss")

// CatalogGenerationKey holds a counter bumped on every aggregate change.
// Catalog cache keys embed it, so bumping it orphans every older entry.
const CatalogGenerationKey = "catalog:generation"

// CatalogEntryPattern matches cached catalog entries of any generation but
// not the generation counter
const CatalogEntryPattern = "catalog:[0-9]*"

// CatalogKey builds a cache key inside the given catalog generation
func CatalogKey(generation int64, parts ...string) string {
	key := fmt.Sprintf("catalog:%d", generation)
	for _, p := range parts {
		key += ":" + p
	}
	return key
}

// CacheProvider defines the interface for caching operations
type CacheProvider interface {
	// Get retrieves a value from cache; a missing key yields ErrCacheMiss
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in cache with expiration
	Set(ctx context.Context, key string, value []byte, expirationSeconds int) error

	// Delete removes a value from cache
	Delete(ctx context.Context, key string) error

	// DeletePattern removes every key matching a glob pattern
	DeletePattern(ctx context.Context, pattern string) error

	// Exists checks if a key exists in cache
	Exists(ctx context.Context, key string) (bool, error)

	// Incr atomically increments an integer key and returns the new value
	Incr(ctx context.Context, key string) (int64, error)
}
