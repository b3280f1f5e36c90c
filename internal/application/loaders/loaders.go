package loaders

import (
	"context"

	"github.com/graph-gophers/dataloader/v7"

	"github.com/dinewise/backend/internal/domain/repositories"
)

type ctxKey string

const loadersKey ctxKey = "dataloaders"

// Loaders contains the request-scoped dataloaders
type Loaders struct {
	CuisineLoader *dataloader.Loader[string, []string]
}

// NewLoaders creates a new instance of Loaders
func NewLoaders(restaurantRepo repositories.RestaurantRepository) *Loaders {
	return &Loaders{
		CuisineLoader: dataloader.NewBatchedLoader(func(ctx context.Context, keys []string) []*dataloader.Result[[]string] {
			results := make([]*dataloader.Result[[]string], len(keys))
			cuisines, err := restaurantRepo.CuisinesByRestaurantIDs(ctx, keys)

			for i, key := range keys {
				if err != nil {
					results[i] = &dataloader.Result[[]string]{Error: err}
					continue
				}
				names, ok := cuisines[key]
				if !ok {
					names = []string{}
				}
				results[i] = &dataloader.Result[[]string]{Data: names}
			}
			return results
		}),
	}
}

// For returns the loaders attached to ctx, or nil
func For(ctx context.Context) *Loaders {
	l, _ := ctx.Value(loadersKey).(*Loaders)
	return l
}

// WithLoaders returns a new context with the loaders attached
func WithLoaders(ctx context.Context, loaders *Loaders) context.Context {
	return context.WithValue(ctx, loadersKey, loaders)
}
