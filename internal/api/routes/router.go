package routes

import (
	"net/http"

	"github.com/dinewise/backend/internal/api/handlers"
	"github.com/dinewise/backend/internal/api/middleware"
	"github.com/dinewise/backend/internal/domain/providers"
	"github.com/dinewise/backend/internal/domain/repositories"
	"github.com/dinewise/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	healthHandler     *handlers.HealthHandler
	ratingHandler     *handlers.RatingHandler
	reviewHandler     *handlers.ReviewHandler
	restaurantHandler *handlers.RestaurantHandler
	analyticsHandler  *handlers.AnalyticsHandler
	profileHandler    *handlers.ProfileHandler

	tokenValidator providers.TokenValidator
	restaurants    repositories.RestaurantRepository
	responseCache  *middleware.ResponseCache
	allowedOrigins []string
	metrics        *observability.Metrics
}

// Handlers groups the HTTP handlers served by the router
type Handlers struct {
	Health     *handlers.HealthHandler
	Rating     *handlers.RatingHandler
	Review     *handlers.ReviewHandler
	Restaurant *handlers.RestaurantHandler
	Analytics  *handlers.AnalyticsHandler
	Profile    *handlers.ProfileHandler
}

// Options carries the cross-cutting dependencies of the router. Cache and
// Metrics may be nil.
type Options struct {
	TokenValidator providers.TokenValidator
	Restaurants    repositories.RestaurantRepository
	ResponseCache  *middleware.ResponseCache
	AllowedOrigins []string
	Metrics        *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(h Handlers, opts Options) *Router {
	return &Router{
		mux:               http.NewServeMux(),
		healthHandler:     h.Health,
		ratingHandler:     h.Rating,
		reviewHandler:     h.Review,
		restaurantHandler: h.Restaurant,
		analyticsHandler:  h.Analytics,
		profileHandler:    h.Profile,
		tokenValidator:    opts.TokenValidator,
		restaurants:       opts.Restaurants,
		responseCache:     opts.ResponseCache,
		allowedOrigins:    opts.AllowedOrigins,
		metrics:           opts.Metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	auth := middleware.RequireAuth(r.tokenValidator)
	protected := func(h http.HandlerFunc) http.Handler {
		return auth(h)
	}

	r.mux.HandleFunc("GET /api/health", r.healthHandler.Health)

	// Ratings
	r.mux.Handle("POST /api/ratings", protected(r.ratingHandler.SubmitRating))
	r.mux.Handle("GET /api/ratings/user", protected(r.ratingHandler.GetUserRatings))
	r.mux.HandleFunc("GET /api/ratings/restaurant/{id}", r.ratingHandler.GetRestaurantRatings)

	// Reviews
	r.mux.Handle("POST /api/reviews", protected(r.reviewHandler.SubmitReview))
	r.mux.HandleFunc("GET /api/reviews/restaurant/{id}", r.reviewHandler.GetRestaurantReviews)
	r.mux.Handle("POST /api/reviews/{id}/helpful", protected(r.reviewHandler.MarkHelpful))

	// Restaurant catalog; literal segments win over {id}
	r.mux.HandleFunc("GET /api/restaurants", r.restaurantHandler.ListRestaurants)
	r.mux.HandleFunc("GET /api/restaurants/{$}", r.restaurantHandler.ListRestaurants)
	r.mux.HandleFunc("GET /api/restaurants/cities", r.restaurantHandler.GetCities)
	r.mux.HandleFunc("GET /api/restaurants/categories", r.restaurantHandler.GetCategories)
	r.mux.HandleFunc("GET /api/restaurants/search", r.restaurantHandler.SearchRestaurants)
	r.mux.HandleFunc("GET /api/restaurants/{id}", r.restaurantHandler.GetRestaurant)

	// Analytics
	r.mux.HandleFunc("GET /api/analytics/top-rated", r.analyticsHandler.GetTopRated)
	r.mux.HandleFunc("GET /api/analytics/city-stats", r.analyticsHandler.GetCityStats)

	// Profile
	r.mux.Handle("GET /api/profile", protected(r.profileHandler.GetProfile))
	r.mux.Handle("PUT /api/profile", protected(r.profileHandler.UpdateProfile))
	r.mux.Handle("GET /api/profile/activity", protected(r.profileHandler.GetActivity))

	// Apply middleware in reverse order (last middleware wraps first).
	// CORS must be outermost so cached responses also get CORS headers.
	var handler http.Handler = r.mux

	if r.responseCache != nil {
		handler = r.responseCache.Middleware(handler)
	}
	if r.restaurants != nil {
		handler = middleware.Loaders(r.restaurants)(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.ResponseOptimization(handler)
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}
