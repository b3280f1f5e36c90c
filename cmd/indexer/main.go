package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/dinewise/backend/internal/adapters/database"
	"github.com/dinewise/backend/internal/adapters/search"
	"github.com/dinewise/backend/internal/application/services"
	"github.com/dinewise/backend/internal/infrastructure/clients/postgres"
	"github.com/dinewise/backend/internal/infrastructure/clients/typesense"
	"github.com/dinewise/backend/internal/infrastructure/observability"
	"github.com/dinewise/backend/pkg/config"
)

func main() {
	var schedule string
	flag.StringVar(&schedule, "schedule", "", "cron expression for repeated rebuilds (overrides INDEXER_SCHEDULE)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	observability.InitLogger("dinewise-indexer", cfg.Server.Env, cfg.Server.LogLevel)
	logger := observability.GetLogger()

	if schedule == "" {
		schedule = cfg.Indexer.Schedule
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pgClient, err := postgres.NewClient(ctx, &cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to PostgreSQL")
	}
	defer pgClient.Close()

	tsClient, err := typesense.NewClient(ctx, &cfg.Typesense)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to Typesense")
	}

	syncService := services.NewSearchIndexSyncService(
		database.NewRestaurantAdapter(pgClient),
		search.NewTypesenseAdapter(tsClient),
		nil,
	)

	rebuild := func() {
		start := time.Now()
		count, err := syncService.Rebuild(ctx, cfg.Indexer.BatchSize)
		if err != nil {
			logger.Error().Err(err).Int("indexed", count).Msg("search index rebuild failed")
			return
		}
		logger.Info().Int("indexed", count).Dur("duration", time.Since(start)).Msg("search index rebuilt")
	}

	rebuild()
	if schedule == "" {
		return
	}

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(schedule, rebuild); err != nil {
		logger.Fatal().Err(err).Str("schedule", schedule).Msg("invalid indexer schedule")
	}
	scheduler.Start()
	logger.Info().Str("schedule", schedule).Msg("indexer scheduled")

	<-ctx.Done()
	<-scheduler.Stop().Done()
	logger.Info().Msg("indexer stopped")
}
