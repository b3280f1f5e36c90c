package services

import (
	"context"
	"strings"

	"github.com/dinewise/backend/internal/application/loaders"
	"github.com/dinewise/backend/internal/domain/entities"
	"github.com/dinewise/backend/internal/domain/repositories"
	"github.com/dinewise/backend/internal/infrastructure/observability"
	apperrors "github.com/dinewise/backend/pkg/errors"
)

// RestaurantService handles catalog reads
type RestaurantService struct {
	repo    repositories.RestaurantRepository
	reviews repositories.ReviewRepository
}

// NewRestaurantService creates a new restaurant service
func NewRestaurantService(repo repositories.RestaurantRepository, reviews repositories.ReviewRepository) *RestaurantService {
	return &RestaurantService{
		repo:    repo,
		reviews: reviews,
	}
}

// ListRestaurants returns one window of the filtered, ranked catalog with
// cuisines attached. Total is the number of restaurants in the window.
func (s *RestaurantService) ListRestaurants(ctx context.Context, filter repositories.RestaurantFilter) (*entities.RestaurantPage, error) {
	ctx, span := observability.StartSpan(ctx, "RestaurantService.ListRestaurants")
	defer span.End()

	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, apperrors.NewValidationError("limit and offset must be non-negative")
	}
	if filter.Limit == 0 {
		filter.Limit = repositories.DefaultListLimit
	}
	filter.City = strings.TrimSpace(filter.City)
	filter.Cuisine = strings.TrimSpace(filter.Cuisine)
	filter.Search = strings.TrimSpace(filter.Search)

	restaurants, err := s.repo.List(ctx, filter)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	if err := s.attachCuisines(ctx, restaurants); err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	return &entities.RestaurantPage{
		Restaurants: restaurants,
		Total:       len(restaurants),
		Offset:      filter.Offset,
		Limit:       filter.Limit,
	}, nil
}

// GetRestaurant returns the full record with cuisines and review count
func (s *RestaurantService) GetRestaurant(ctx context.Context, id string) (*entities.RestaurantDetail, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperrors.NewValidationError("restaurant id is required")
	}

	restaurant, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.attachCuisines(ctx, []*entities.Restaurant{restaurant}); err != nil {
		return nil, err
	}

	count, err := s.reviews.CountByRestaurant(ctx, id)
	if err != nil {
		return nil, err
	}

	return &entities.RestaurantDetail{Restaurant: *restaurant, ReviewCount: count}, nil
}

// Search returns at most SearchResultCap restaurants in listing order
func (s *RestaurantService) Search(ctx context.Context, params repositories.SearchParams) ([]*entities.RestaurantSummary, error) {
	params.Query = strings.TrimSpace(params.Query)
	params.City = strings.TrimSpace(params.City)
	params.Cuisine = strings.TrimSpace(params.Cuisine)
	return s.repo.Search(ctx, params)
}

// Cities counts restaurants per city
func (s *RestaurantService) Cities(ctx context.Context) ([]*entities.CityCount, error) {
	return s.repo.ListCities(ctx)
}

// Categories counts restaurants per cuisine category
func (s *RestaurantService) Categories(ctx context.Context) ([]*entities.Category, error) {
	return s.repo.ListCategories(ctx)
}

// attachCuisines resolves every restaurant's cuisines in one batch through
// the request's dataloader, or a fresh one outside a request.
func (s *RestaurantService) attachCuisines(ctx context.Context, restaurants []*entities.Restaurant) error {
	if len(restaurants) == 0 {
		return nil
	}

	l := loaders.For(ctx)
	if l == nil {
		l = loaders.NewLoaders(s.repo)
	}

	ids := make([]string, len(restaurants))
	for i, r := range restaurants {
		ids[i] = r.ID
	}

	cuisines, errs := l.CuisineLoader.LoadMany(ctx, ids)()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	for i, r := range restaurants {
		// cached copies may be shared with other readers
		copied := *r
		copied.Cuisines = cuisines[i]
		if copied.Cuisines == nil {
			copied.Cuisines = []string{}
		}
		restaurants[i] = &copied
	}
	return nil
}
