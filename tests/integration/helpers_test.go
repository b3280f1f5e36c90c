//go:build integration

package integration

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dinewise/backend/internal/infrastructure/clients/postgres"
	_ "github.com/dinewise/backend/migrations"
)

// startPostgres runs a throwaway Postgres, applies migrations and returns a
// client bound to it. The container is terminated on test cleanup.
func startPostgres(t *testing.T) *postgres.Client {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("dinewise_test"),
		tcpostgres.WithUsername("dinewise"),
		tcpostgres.WithPassword("dinewise"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err, "could not start postgres container")
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate postgres container: %v", err)
		}
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("postgres", connStr)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, goose.SetDialect("postgres"))
	require.NoError(t, goose.Up(db, "../../migrations"))

	return postgres.NewFromDB(db, 5*time.Second)
}

func seed(t *testing.T, client *postgres.Client, statements ...string) {
	t.Helper()
	for _, stmt := range statements {
		_, err := client.DB().Exec(stmt)
		require.NoError(t, err, stmt)
	}
}
