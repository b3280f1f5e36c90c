package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dinewise/backend/internal/adapters/auth"
	"github.com/dinewise/backend/internal/adapters/cache"
	"github.com/dinewise/backend/internal/adapters/database"
	"github.com/dinewise/backend/internal/adapters/events"
	"github.com/dinewise/backend/internal/adapters/search"
	"github.com/dinewise/backend/internal/api/handlers"
	"github.com/dinewise/backend/internal/api/middleware"
	"github.com/dinewise/backend/internal/api/routes"
	"github.com/dinewise/backend/internal/application/services"
	"github.com/dinewise/backend/internal/domain/providers"
	"github.com/dinewise/backend/internal/domain/repositories"
	"github.com/dinewise/backend/internal/infrastructure/clients/postgres"
	"github.com/dinewise/backend/internal/infrastructure/clients/redis"
	"github.com/dinewise/backend/internal/infrastructure/clients/typesense"
	"github.com/dinewise/backend/internal/infrastructure/observability"
	"github.com/dinewise/backend/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env, cfg.Server.LogLevel)
	logger := observability.GetLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					logger.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			logger.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	pgClient, err := postgres.NewClient(ctx, &cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()
	pgClient.SetMetrics(metrics)

	// Redis is optional: without it reads go straight to Postgres and no
	// rating events are published
	var (
		cacheProvider providers.CacheProvider
		eventBus      providers.EventBus
	)
	redisClient, err := redis.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Warn().Err(err).Msg("Redis unavailable, running without cache and events")
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
		eventBus = events.NewRedisEventBus(redisClient)
	}

	baseRestaurants := database.NewRestaurantAdapter(pgClient)
	var restaurantRepo repositories.RestaurantRepository = baseRestaurants
	var invalidationService *services.CacheInvalidationService
	if cacheProvider != nil {
		restaurantRepo = database.NewCachedRestaurantAdapter(baseRestaurants, cacheProvider, cfg.Cache, metrics)
		invalidationService = services.NewCacheInvalidationService(cacheProvider)
		defer invalidationService.Stop()
	}

	ratingRepo := database.NewRatingAdapter(pgClient)
	reviewRepo := database.NewReviewAdapter(pgClient)
	userRepo := database.NewUserAdapter(pgClient)
	analyticsRepo := database.NewAnalyticsAdapter(pgClient)

	var invalidator services.CatalogInvalidator
	if invalidationService != nil {
		invalidator = invalidationService
	}

	ratingService := services.NewRatingService(ratingRepo, invalidator, eventBus, metrics)
	reviewService := services.NewReviewService(reviewRepo)
	restaurantService := services.NewRestaurantService(restaurantRepo, reviewRepo)
	analyticsService := services.NewAnalyticsService(analyticsRepo, cfg.Analytics)
	profileService := services.NewProfileService(userRepo, ratingRepo, reviewRepo)

	if cfg.Typesense.Enabled && eventBus != nil {
		tsClient, err := typesense.NewClient(ctx, &cfg.Typesense)
		if err != nil {
			logger.Warn().Err(err).Msg("Typesense unavailable, search index sync disabled")
		} else {
			indexer := search.NewTypesenseAdapter(tsClient)
			if err := indexer.EnsureCollection(ctx); err != nil {
				logger.Warn().Err(err).Msg("failed to ensure search collection")
			}
			syncService := services.NewSearchIndexSyncService(baseRestaurants, indexer, eventBus)
			if err := syncService.Start(); err != nil {
				logger.Warn().Err(err).Msg("failed to start search index sync")
			} else {
				defer syncService.Stop()
			}
		}
	}

	if cacheProvider != nil {
		warmingService := services.NewCacheWarmingService(restaurantRepo)
		go warmingService.StartPeriodicWarming(ctx, cfg.Cache.WarmInterval)
	}

	var responseCache *middleware.ResponseCache
	if cacheProvider != nil {
		responseCache = middleware.NewResponseCache(cacheProvider, middleware.DefaultResponseCacheRoutes)
	}

	if cfg.Auth.JWTSecret == "" {
		logger.Warn().Msg("JWT_SECRET is empty; protected routes will reject every token")
	}

	router := routes.NewRouter(routes.Handlers{
		Health:     handlers.NewHealthHandler(pgClient),
		Rating:     handlers.NewRatingHandler(ratingService),
		Review:     handlers.NewReviewHandler(reviewService),
		Restaurant: handlers.NewRestaurantHandler(restaurantService),
		Analytics:  handlers.NewAnalyticsHandler(analyticsService),
		Profile:    handlers.NewProfileHandler(profileService),
	}, routes.Options{
		TokenValidator: auth.NewJWTValidator(cfg.Auth.JWTSecret),
		Restaurants:    restaurantRepo,
		ResponseCache:  responseCache,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Metrics:        metrics,
	})

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("error during server shutdown")
	}

	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			logger.Error().Err(err).Msg("error closing event bus")
		}
	}

	logger.Info().Msg("server stopped")
}
