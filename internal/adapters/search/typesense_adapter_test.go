package search

import (
	"testing"

	"github.com/dinewise/backend/internal/domain/entities"
	"github.com/stretchr/testify/assert"
)

func TestRestaurantDocument(t *testing.T) {
	doc := restaurantDocument(&entities.Restaurant{
		ID:         "R1",
		Name:       "Trattoria",
		City:       "Pune",
		AvgRating:  4.3,
		Votes:      12,
		PriceRange: 2,
		DiningType: "Casual",
		Cuisines:   []string{"Italian", "Pizza"},
	})

	assert.Equal(t, "R1", doc["id"])
	assert.Equal(t, 4.3, doc["avg_rating"])
	assert.Equal(t, 12, doc["votes"])
	assert.Equal(t, []string{"Italian", "Pizza"}, doc["cuisines"])
	assert.Equal(t, "Casual", doc["dining_type"])
}

func TestRestaurantDocument_OmitsEmptyOptionalFields(t *testing.T) {
	doc := restaurantDocument(&entities.Restaurant{ID: "R2", Name: "Plain"})

	assert.NotContains(t, doc, "cuisines")
	assert.NotContains(t, doc, "dining_type")
	assert.Equal(t, 0, doc["votes"])
}

func TestCollectionSchema(t *testing.T) {
	schema := collectionSchema()

	assert.Equal(t, CollectionName, schema.Name)
	assert.Equal(t, "votes", *schema.DefaultSortingField)

	names := make([]string, 0, len(schema.Fields))
	for _, f := range schema.Fields {
		names = append(names, f.Name)
	}
	assert.Contains(t, names, "avg_rating")
	assert.Contains(t, names, "cuisines")
}
