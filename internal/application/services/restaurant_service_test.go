package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dinewise/backend/internal/application/loaders"
	"github.com/dinewise/backend/internal/application/services"
	"github.com/dinewise/backend/internal/domain/entities"
	"github.com/dinewise/backend/internal/domain/repositories"
	apperrors "github.com/dinewise/backend/pkg/errors"
)

func TestRestaurantService_ListRestaurants_DefaultsAndCuisines(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo := new(MockRestaurantRepository)
	service := services.NewRestaurantService(repo, new(MockReviewRepository))

	want := repositories.RestaurantFilter{City: "Delhi", Limit: repositories.DefaultListLimit}
	repo.On("List", mock.Anything, want).Return([]*entities.Restaurant{
		{ID: "R1", Name: "Sushi Bar"},
		{ID: "R2", Name: "Trattoria"},
	}, nil)
	repo.On("CuisinesByRestaurantIDs", mock.Anything, mock.MatchedBy(func(ids []string) bool {
		return len(ids) == 2
	})).Return(map[string][]string{"R1": {"Japanese"}}, nil).Once()

	// Act
	page, err := service.ListRestaurants(ctx, repositories.RestaurantFilter{City: " Delhi "})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, 50, page.Limit)
	assert.Equal(t, 0, page.Offset)
	assert.Equal(t, []string{"Japanese"}, page.Restaurants[0].Cuisines)
	assert.Equal(t, []string{}, page.Restaurants[1].Cuisines)
	repo.AssertExpectations(t)
}

func TestRestaurantService_ListRestaurants_UsesRequestLoader(t *testing.T) {
	repo := new(MockRestaurantRepository)
	service := services.NewRestaurantService(repo, new(MockReviewRepository))
	ctx := loaders.WithLoaders(context.Background(), loaders.NewLoaders(repo))

	repo.On("List", mock.Anything, mock.Anything).Return([]*entities.Restaurant{{ID: "R1"}}, nil)
	repo.On("CuisinesByRestaurantIDs", mock.Anything, []string{"R1"}).Return(map[string][]string{"R1": {"Thai"}}, nil).Once()

	_, err := service.ListRestaurants(ctx, repositories.RestaurantFilter{})
	require.NoError(t, err)
	page, err := service.ListRestaurants(ctx, repositories.RestaurantFilter{})
	require.NoError(t, err)

	assert.Equal(t, []string{"Thai"}, page.Restaurants[0].Cuisines)
	repo.AssertNumberOfCalls(t, "CuisinesByRestaurantIDs", 1)
}

func TestRestaurantService_ListRestaurants_NegativeWindow(t *testing.T) {
	service := services.NewRestaurantService(new(MockRestaurantRepository), new(MockReviewRepository))

	_, err := service.ListRestaurants(context.Background(), repositories.RestaurantFilter{Offset: -1})

	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeValidation))
}

func TestRestaurantService_ListRestaurants_EmptyIsNotAnError(t *testing.T) {
	repo := new(MockRestaurantRepository)
	service := services.NewRestaurantService(repo, new(MockReviewRepository))

	repo.On("List", mock.Anything, mock.Anything).Return([]*entities.Restaurant{}, nil)

	page, err := service.ListRestaurants(context.Background(), repositories.RestaurantFilter{Cuisine: "Martian"})

	require.NoError(t, err)
	assert.Empty(t, page.Restaurants)
	assert.Equal(t, 0, page.Total)
	repo.AssertNotCalled(t, "CuisinesByRestaurantIDs", mock.Anything, mock.Anything)
}

func TestRestaurantService_ListRestaurants_StorageError(t *testing.T) {
	repo := new(MockRestaurantRepository)
	service := services.NewRestaurantService(repo, new(MockReviewRepository))

	repo.On("List", mock.Anything, mock.Anything).Return(nil, apperrors.NewStorageError("failed to list restaurants", errors.New("down")))

	_, err := service.ListRestaurants(context.Background(), repositories.RestaurantFilter{})

	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeStorage))
}

func TestRestaurantService_GetRestaurant(t *testing.T) {
	ctx := context.Background()

	t.Run("detail carries cuisines and review count", func(t *testing.T) {
		repo := new(MockRestaurantRepository)
		reviews := new(MockReviewRepository)
		service := services.NewRestaurantService(repo, reviews)

		repo.On("GetByID", mock.Anything, "R1").Return(&entities.Restaurant{ID: "R1", Name: "Sushi Bar"}, nil)
		repo.On("CuisinesByRestaurantIDs", mock.Anything, []string{"R1"}).Return(map[string][]string{"R1": {"Asian", "Japanese"}}, nil)
		reviews.On("CountByRestaurant", mock.Anything, "R1").Return(3, nil)

		detail, err := service.GetRestaurant(ctx, "R1")

		require.NoError(t, err)
		assert.Equal(t, "Sushi Bar", detail.Name)
		assert.Equal(t, []string{"Asian", "Japanese"}, detail.Cuisines)
		assert.Equal(t, 3, detail.ReviewCount)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		repo := new(MockRestaurantRepository)
		service := services.NewRestaurantService(repo, new(MockReviewRepository))

		repo.On("GetByID", mock.Anything, "nope").Return(nil, apperrors.NewNotFoundError("restaurant nope not found"))

		_, err := service.GetRestaurant(ctx, "nope")

		assert.True(t, apperrors.Is(err, apperrors.ErrorTypeNotFound))
	})
}

func TestRestaurantService_Search(t *testing.T) {
	repo := new(MockRestaurantRepository)
	service := services.NewRestaurantService(repo, new(MockReviewRepository))

	maxPrice := 2
	repo.On("Search", mock.Anything, repositories.SearchParams{Query: "pizza", MaxPrice: &maxPrice}).
		Return([]*entities.RestaurantSummary{{ID: "R2"}}, nil)

	results, err := service.Search(context.Background(), repositories.SearchParams{Query: " pizza ", MaxPrice: &maxPrice})

	require.NoError(t, err)
	assert.Len(t, results, 1)
}
