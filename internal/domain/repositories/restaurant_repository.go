package repositories

import (
	"context"

	"github.com/dinewise/backend/internal/domain/entities"
)

const (
	// DefaultListLimit is applied when a listing asks for no explicit limit
	DefaultListLimit = 50
	// SearchResultCap bounds every search response
	SearchResultCap = 20
)

// RestaurantRepository defines the interface for catalog reads
type RestaurantRepository interface {
	// GetByID retrieves a restaurant by ID
	GetByID(ctx context.Context, id string) (*entities.Restaurant, error)

	// List retrieves one ordered window of restaurants matching the filter
	List(ctx context.Context, filter RestaurantFilter) ([]*entities.Restaurant, error)

	// Search retrieves at most SearchResultCap restaurants in listing order
	Search(ctx context.Context, params SearchParams) ([]*entities.RestaurantSummary, error)

	// CuisinesByRestaurantIDs returns the sorted cuisine names of each restaurant
	CuisinesByRestaurantIDs(ctx context.Context, ids []string) (map[string][]string, error)

	// ListCities counts restaurants per city
	ListCities(ctx context.Context) ([]*entities.CityCount, error)

	// ListCategories counts restaurants per cuisine category
	ListCategories(ctx context.Context) ([]*entities.Category, error)
}

// RestaurantFilter defines optional filters and the window for listing.
// Zero values mean "no filter".
type RestaurantFilter struct {
	City      string
	Cuisine   string
	MinRating float64
	Search    string
	Limit     int
	Offset    int
}

// SearchParams defines parameters for restaurant search
type SearchParams struct {
	Query     string
	City      string
	Cuisine   string
	MinRating float64
	MaxPrice  *int
}
