package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dinewise/backend/internal/infrastructure/observability"
	"github.com/dinewise/backend/pkg/config"
	"github.com/dinewise/backend/pkg/retry"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const defaultQueryTimeout = 5 * time.Second

// Client represents a PostgreSQL database client. It owns a bounded pool:
// once MaxOpenConns connections are checked out, callers wait for a free one
// until their context deadline.
type Client struct {
	db           *sql.DB
	queryTimeout time.Duration
	metrics      *observability.Metrics
}

// NewClient opens the pool and pings the database with exponential backoff
func NewClient(ctx context.Context, cfg *config.DatabaseConfig) (*Client, error) {
	db, err := sql.Open("postgres", cfg.DatabaseDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	err = retry.Do(ctx, retry.DefaultConfig(), "postgres", func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return db.PingContext(pingCtx)
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to PostgreSQL after retries: %w", err)
	}

	log.Info().
		Str("host", cfg.Host).
		Str("database", cfg.Database).
		Int("max_open_conns", cfg.MaxOpenConns).
		Msg("connected to PostgreSQL")

	return NewFromDB(db, cfg.QueryTimeout), nil
}

// NewFromDB wraps an already opened handle
func NewFromDB(db *sql.DB, queryTimeout time.Duration) *Client {
	if queryTimeout <= 0 {
		queryTimeout = defaultQueryTimeout
	}
	return &Client{db: db, queryTimeout: queryTimeout}
}

// DB returns the underlying database connection
func (c *Client) DB() *sql.DB {
	return c.db
}

// QueryTimeout is the deadline applied to every storage call
func (c *Client) QueryTimeout() time.Duration {
	return c.queryTimeout
}

// WithTimeout derives a context bounded by the query timeout. An earlier
// deadline already on ctx wins.
func (c *Client) WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.queryTimeout)
}

// WithTx runs fn inside a transaction bounded by the query timeout. The
// transaction commits when fn returns nil and rolls back otherwise.
func (c *Client) WithTx(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error {
	ctx, cancel := c.WithTimeout(ctx)
	defer cancel()

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			log.Error().Err(rbErr).Msg("failed to roll back transaction")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// SetMetrics enables query duration metrics
func (c *Client) SetMetrics(metrics *observability.Metrics) {
	c.metrics = metrics
}

// Observe records the duration of a storage call that began at start
func (c *Client) Observe(ctx context.Context, operation string, start time.Time) {
	observability.RecordDBMetric(ctx, c.metrics, operation, time.Since(start))
}

// Close closes the database connection
func (c *Client) Close() error {
	return c.db.Close()
}

// Ping verifies the connection to the database
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := c.WithTimeout(ctx)
	defer cancel()
	return c.db.PingContext(ctx)
}

// Stats reports pool usage
func (c *Client) Stats() sql.DBStats {
	return c.db.Stats()
}
