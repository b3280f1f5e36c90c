package database

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dinewise/backend/internal/domain/repositories"
	apperrors "github.com/dinewise/backend/pkg/errors"
)

func regexpContains(s, pattern string) bool {
	return regexp.MustCompile(pattern).MatchString(s)
}

func TestRestaurantAdapter_ListQuery(t *testing.T) {
	client, _ := newMockClient(t)
	adapter := NewRestaurantAdapter(client).(*RestaurantAdapter)

	t.Run("binds every filter as a parameter", func(t *testing.T) {
		// Arrange
		filter := repositories.RestaurantFilter{
			City:      "Pune",
			Cuisine:   "Italian",
			MinRating: 4.5,
			Search:    "50%_off",
			Limit:     10,
			Offset:    20,
		}

		// Act
		query, args, err := adapter.listQuery(filter)

		// Assert
		require.NoError(t, err)
		assert.NotContains(t, query, "Pune")
		assert.NotContains(t, query, "Italian")
		assert.Contains(t, query, `"r"."city" = $1`)
		assert.Contains(t, query, `ILIKE`)
		assert.Contains(t, query, `EXISTS (SELECT 1 FROM "restaurant_categories"`)
		assert.Contains(t, query, `ORDER BY "r"."avg_rating" DESC, "r"."votes" DESC, "r"."restaurant_id" ASC`)
		assert.Contains(t, args, "Pune")
		assert.Contains(t, args, "Italian")
		assert.Contains(t, args, 4.5)
		assert.Contains(t, args, `%50\%\_off%`)
	})

	t.Run("cuisine filter never joins rows into the outer query", func(t *testing.T) {
		query, _, err := adapter.listQuery(repositories.RestaurantFilter{Cuisine: "Italian"})

		require.NoError(t, err)
		assert.NotContains(t, query, `FROM "restaurants" AS "r" INNER JOIN`)
	})

	t.Run("applies default limit", func(t *testing.T) {
		query, args, err := adapter.listQuery(repositories.RestaurantFilter{})

		require.NoError(t, err)
		assert.NotContains(t, query, "WHERE")
		assert.True(t, limitIs(query, args, repositories.DefaultListLimit))
		assert.NotContains(t, query, "OFFSET")
	})
}

func TestRestaurantAdapter_List(t *testing.T) {
	ctx := context.Background()

	t.Run("scans rows and tolerates null columns", func(t *testing.T) {
		client, mock := newMockClient(t)
		adapter := NewRestaurantAdapter(client)

		mock.ExpectQuery(`SELECT .* FROM "restaurants" AS "r"`).
			WillReturnRows(sqlmock.NewRows(restaurantRowColumns).
				AddRow("R1", "Trattoria", "1 Main St", "Pune", "West", "123", "http://t.example", 4.6, 2, "Casual", "9-5", 40, "Excellent").
				AddRow("R2", "Corner Cafe", nil, "Pune", nil, nil, nil, 4.1, nil, nil, nil, 7, nil))

		restaurants, err := adapter.List(ctx, repositories.RestaurantFilter{City: "Pune"})

		require.NoError(t, err)
		require.Len(t, restaurants, 2)
		assert.Equal(t, "R1", restaurants[0].ID)
		assert.Equal(t, 2, restaurants[0].PriceRange)
		assert.Equal(t, "", restaurants[1].Address)
		assert.Equal(t, 0, restaurants[1].PriceRange)
		assert.Equal(t, []string{}, restaurants[1].Cuisines)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty result is not an error", func(t *testing.T) {
		client, mock := newMockClient(t)
		adapter := NewRestaurantAdapter(client)

		mock.ExpectQuery(`FROM "restaurants"`).WillReturnRows(sqlmock.NewRows(restaurantRowColumns))

		restaurants, err := adapter.List(ctx, repositories.RestaurantFilter{City: "Nowhere"})

		require.NoError(t, err)
		assert.Empty(t, restaurants)
		assert.NotNil(t, restaurants)
	})

	t.Run("driver failure becomes a storage error", func(t *testing.T) {
		client, mock := newMockClient(t)
		adapter := NewRestaurantAdapter(client)

		mock.ExpectQuery(`FROM "restaurants"`).WillReturnError(sql.ErrConnDone)

		_, err := adapter.List(ctx, repositories.RestaurantFilter{})

		assert.True(t, apperrors.Is(err, apperrors.ErrorTypeStorage))
		assert.ErrorIs(t, err, sql.ErrConnDone)
	})
}

func TestRestaurantAdapter_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("returns not found", func(t *testing.T) {
		client, mock := newMockClient(t)
		adapter := NewRestaurantAdapter(client)

		mock.ExpectQuery(`FROM "restaurants" AS "r" WHERE`).
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows(restaurantRowColumns))

		restaurant, err := adapter.GetByID(ctx, "missing")

		assert.Nil(t, restaurant)
		assert.True(t, apperrors.Is(err, apperrors.ErrorTypeNotFound))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRestaurantAdapter_Search(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := NewRestaurantAdapter(client)
	maxPrice := 2

	mock.ExpectQuery(`"r"."price_range" <= .* ORDER BY "r"."avg_rating" DESC`).
		WillReturnRows(sqlmock.NewRows([]string{
			"restaurant_id", "name", "city", "avg_rating", "price_range", "votes", "dining_type",
		}).AddRow("R1", "Cafe Uno", "Pune", 4.2, 2, 11, nil))

	results, err := adapter.Search(context.Background(), repositories.SearchParams{
		Query:    "cafe",
		MaxPrice: &maxPrice,
	})

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Cafe Uno", results[0].Name)
	assert.Equal(t, "", results[0].DiningType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRestaurantAdapter_CuisinesByRestaurantIDs(t *testing.T) {
	ctx := context.Background()

	t.Run("groups names by restaurant", func(t *testing.T) {
		client, mock := newMockClient(t)
		adapter := NewRestaurantAdapter(client)

		mock.ExpectQuery(`FROM "restaurant_categories" AS "rc" INNER JOIN "categories"`).
			WithArgs("R1", "R2").
			WillReturnRows(sqlmock.NewRows([]string{"restaurant_id", "category_name"}).
				AddRow("R1", "Italian").
				AddRow("R1", "Pizza").
				AddRow("R2", "Thai"))

		cuisines, err := adapter.CuisinesByRestaurantIDs(ctx, []string{"R1", "R2"})

		require.NoError(t, err)
		assert.Equal(t, []string{"Italian", "Pizza"}, cuisines["R1"])
		assert.Equal(t, []string{"Thai"}, cuisines["R2"])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no ids means no query", func(t *testing.T) {
		client, mock := newMockClient(t)
		adapter := NewRestaurantAdapter(client)

		cuisines, err := adapter.CuisinesByRestaurantIDs(ctx, nil)

		require.NoError(t, err)
		assert.Empty(t, cuisines)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRestaurantAdapter_ListCitiesAndCategories(t *testing.T) {
	ctx := context.Background()
	client, mock := newMockClient(t)
	adapter := NewRestaurantAdapter(client)

	mock.ExpectQuery(`GROUP BY "city" ORDER BY "city" ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"city", "count"}).AddRow("Delhi", 3).AddRow("Pune", 5))
	mock.ExpectQuery(`FROM "categories" AS "c" LEFT JOIN "restaurant_categories"`).
		WillReturnRows(sqlmock.NewRows([]string{"category_id", "category_name", "count"}).
			AddRow("C1", "Italian", 4).
			AddRow("C2", "Vegan", 0))

	cities, err := adapter.ListCities(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Delhi", cities[0].City)
	assert.Equal(t, 5, cities[1].Count)

	categories, err := adapter.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Vegan", categories[1].Name)
	assert.Equal(t, 0, categories[1].Count)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%cafe%", containsPattern("cafe"))
	assert.Equal(t, `%100\%%`, containsPattern("100%"))
	assert.Equal(t, `%a\_b%`, containsPattern("a_b"))
	assert.Equal(t, `%c\\d%`, containsPattern(`c\d`))
}
