package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"

	"github.com/dinewise/backend/internal/infrastructure/clients/postgres"
	"github.com/dinewise/backend/internal/infrastructure/observability"
	_ "github.com/dinewise/backend/migrations"
	"github.com/dinewise/backend/pkg/config"
)

const usage = `usage: migrate [-dir migrations] <command> [args]

commands:
  up            apply all pending migrations
  up-to VERSION apply migrations up to VERSION
  down          roll back the latest migration
  status        print the status of every migration
  version       print the current schema version`

func main() {
	dir := flag.String("dir", "migrations", "directory holding the migration files")
	flag.Usage = func() {
		os.Stderr.WriteString(usage + "\n")
	}
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	observability.InitLogger("dinewise-migrate", cfg.Server.Env, cfg.Server.LogLevel)
	logger := observability.GetLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pgClient, err := postgres.NewClient(ctx, &cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to PostgreSQL")
	}
	defer pgClient.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		logger.Fatal().Err(err).Msg("failed to set goose dialect")
	}

	command := args[0]
	if err := goose.RunContext(ctx, command, pgClient.DB(), *dir, args[1:]...); err != nil {
		logger.Fatal().Err(err).Str("command", command).Msg("migration failed")
	}
	logger.Info().Str("command", command).Msg("migration finished")
}
