package providers

import (
	"context"

	"github.com/dinewise/backend/internal/domain/entities"
)

// SearchIndexer keeps an external full-text index of the catalog
type SearchIndexer interface {
	// EnsureCollection creates the index if it does not exist
	EnsureCollection(ctx context.Context) error

	// Index upserts one restaurant document
	Index(ctx context.Context, restaurant *entities.Restaurant) error

	// Delete removes a restaurant from the index
	Delete(ctx context.Context, id string) error
}
