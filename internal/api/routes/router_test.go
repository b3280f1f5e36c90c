package routes_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dinewise/backend/internal/api/handlers"
	"github.com/dinewise/backend/internal/api/routes"
	"github.com/dinewise/backend/internal/domain/entities"
	"github.com/dinewise/backend/internal/domain/repositories"
)

type stubValidator struct{}

func (stubValidator) Validate(ctx context.Context, token string) (string, error) {
	if token == "valid" {
		return "U1", nil
	}
	return "", errors.New("invalid token")
}

type stubPinger struct{}

func (stubPinger) Ping(ctx context.Context) error { return nil }

type stubRatings struct {
	submittedBy string
}

func (s *stubRatings) Submit(ctx context.Context, userID, restaurantID string, value float64) (*entities.RatingSubmission, error) {
	s.submittedBy = userID
	return &entities.RatingSubmission{RatingID: "RAT1", RestaurantID: restaurantID, Value: value, Created: true}, nil
}

func (s *stubRatings) GetUserRatings(ctx context.Context, userID string) ([]*entities.Rating, error) {
	return []*entities.Rating{}, nil
}

func (s *stubRatings) GetDistribution(ctx context.Context, restaurantID string) (*entities.RatingDistribution, error) {
	return entities.NewRatingDistribution(), nil
}

type stubRestaurants struct {
	lastID string
}

func (s *stubRestaurants) ListRestaurants(ctx context.Context, filter repositories.RestaurantFilter) (*entities.RestaurantPage, error) {
	return &entities.RestaurantPage{Restaurants: []*entities.Restaurant{}}, nil
}

func (s *stubRestaurants) GetRestaurant(ctx context.Context, id string) (*entities.RestaurantDetail, error) {
	s.lastID = id
	return &entities.RestaurantDetail{Restaurant: entities.Restaurant{ID: id}}, nil
}

func (s *stubRestaurants) Search(ctx context.Context, params repositories.SearchParams) ([]*entities.RestaurantSummary, error) {
	return []*entities.RestaurantSummary{}, nil
}

func (s *stubRestaurants) Cities(ctx context.Context) ([]*entities.CityCount, error) {
	return []*entities.CityCount{}, nil
}

func (s *stubRestaurants) Categories(ctx context.Context) ([]*entities.Category, error) {
	return []*entities.Category{}, nil
}

func newTestHandler(ratings *stubRatings, restaurants *stubRestaurants) http.Handler {
	router := routes.NewRouter(routes.Handlers{
		Health:     handlers.NewHealthHandler(stubPinger{}),
		Rating:     handlers.NewRatingHandler(ratings),
		Restaurant: handlers.NewRestaurantHandler(restaurants),
	}, routes.Options{
		TokenValidator: stubValidator{},
		AllowedOrigins: []string{"*"},
	})
	return router.SetupRoutes()
}

func TestRouter_Health(t *testing.T) {
	w := httptest.NewRecorder()
	newTestHandler(&stubRatings{}, &stubRestaurants{}).ServeHTTP(w, httptest.NewRequest("GET", "/api/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestRouter_RatingRequiresAuth(t *testing.T) {
	ratings := &stubRatings{}
	handler := newTestHandler(ratings, &stubRestaurants{})

	req := httptest.NewRequest("POST", "/api/ratings", strings.NewReader(`{"restaurant_id":"R1","rating_value":4}`))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, ratings.submittedBy)

	req = httptest.NewRequest("POST", "/api/ratings", strings.NewReader(`{"restaurant_id":"R1","rating_value":4}`))
	req.Header.Set("Authorization", "Bearer valid")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "U1", ratings.submittedBy)
}

func TestRouter_PublicRatingDistribution(t *testing.T) {
	w := httptest.NewRecorder()
	newTestHandler(&stubRatings{}, &stubRestaurants{}).
		ServeHTTP(w, httptest.NewRequest("GET", "/api/ratings/restaurant/R1", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_LiteralSegmentsBeatRestaurantID(t *testing.T) {
	restaurants := &stubRestaurants{}
	handler := newTestHandler(&stubRatings{}, restaurants)

	for _, path := range []string{"/api/restaurants/cities", "/api/restaurants/categories", "/api/restaurants/search"} {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
	assert.Empty(t, restaurants.lastID)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/api/restaurants/R42", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "R42", restaurants.lastID)
}

func TestRouter_ListWithAndWithoutTrailingSlash(t *testing.T) {
	handler := newTestHandler(&stubRatings{}, &stubRestaurants{})

	for _, path := range []string{"/api/restaurants", "/api/restaurants/"} {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Contains(t, w.Body.String(), `"restaurants"`, path)
	}
}

func TestRouter_WrongMethod(t *testing.T) {
	w := httptest.NewRecorder()
	newTestHandler(&stubRatings{}, &stubRestaurants{}).
		ServeHTTP(w, httptest.NewRequest("DELETE", "/api/restaurants/R1", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestRouter_RatingDerivedReadsAreRevalidated(t *testing.T) {
	handler := newTestHandler(&stubRatings{}, &stubRestaurants{})

	for _, path := range []string{"/api/restaurants", "/api/restaurants/R1", "/api/restaurants/search", "/api/ratings/restaurant/R1"} {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
		require.Equal(t, http.StatusOK, w.Code, path)
		cacheControl := w.Header().Get("Cache-Control")
		assert.Contains(t, cacheControl, "no-cache", path)
		assert.NotContains(t, cacheControl, "max-age", path)
		assert.NotEmpty(t, w.Header().Get("ETag"), path)
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/api/restaurants/cities", nil))
	assert.Equal(t, "public, max-age=600, must-revalidate", w.Header().Get("Cache-Control"))
}
