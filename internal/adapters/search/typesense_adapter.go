package search

import (
	"context"
	"fmt"

	"github.com/dinewise/backend/internal/domain/entities"
	"github.com/dinewise/backend/internal/domain/providers"
	tsclient "github.com/dinewise/backend/internal/infrastructure/clients/typesense"
	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"
)

// CollectionName is the Typesense collection holding the catalog
const CollectionName = "restaurants"

// TypesenseAdapter keeps the restaurant catalog indexed in Typesense
type TypesenseAdapter struct {
	client *tsclient.Client
}

var _ providers.SearchIndexer = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// EnsureCollection creates the restaurants collection if it does not exist
func (a *TypesenseAdapter) EnsureCollection(ctx context.Context) error {
	if _, err := a.client.Client().Collection(CollectionName).Retrieve(ctx); err == nil {
		return nil
	}

	if _, err := a.client.Client().Collections().Create(ctx, collectionSchema()); err != nil {
		return fmt.Errorf("failed to create typesense collection: %w", err)
	}
	return nil
}

// Index upserts one restaurant document
func (a *TypesenseAdapter) Index(ctx context.Context, restaurant *entities.Restaurant) error {
	_, err := a.client.Client().Collection(CollectionName).Documents().Upsert(ctx, restaurantDocument(restaurant))
	if err != nil {
		return fmt.Errorf("failed to index restaurant %s: %w", restaurant.ID, err)
	}
	return nil
}

// Delete removes a restaurant from the index
func (a *TypesenseAdapter) Delete(ctx context.Context, id string) error {
	if _, err := a.client.Client().Collection(CollectionName).Document(id).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete restaurant from index: %w", err)
	}
	return nil
}

func collectionSchema() *api.CollectionSchema {
	return &api.CollectionSchema{
		Name: CollectionName,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "name", Type: "string"},
			{Name: "city", Type: "string", Facet: pointer.True()},
			{Name: "cuisines", Type: "string[]", Facet: pointer.True(), Optional: pointer.True()},
			{Name: "avg_rating", Type: "float", Facet: pointer.True()},
			{Name: "votes", Type: "int32"},
			{Name: "price_range", Type: "int32", Facet: pointer.True(), Optional: pointer.True()},
			{Name: "dining_type", Type: "string", Facet: pointer.True(), Optional: pointer.True()},
		},
		DefaultSortingField: pointer.String("votes"),
	}
}

func restaurantDocument(r *entities.Restaurant) map[string]interface{} {
	doc := map[string]interface{}{
		"id":          r.ID,
		"name":        r.Name,
		"city":        r.City,
		"avg_rating":  r.AvgRating,
		"votes":       r.Votes,
		"price_range": r.PriceRange,
	}
	if len(r.Cuisines) > 0 {
		doc["cuisines"] = r.Cuisines
	}
	if r.DiningType != "" {
		doc["dining_type"] = r.DiningType
	}
	return doc
}
