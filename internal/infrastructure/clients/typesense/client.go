package typesense

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/typesense/typesense-go/v2/typesense"

	"github.com/dinewise/backend/pkg/config"
	"github.com/dinewise/backend/pkg/retry"
)

const (
	connectionTimeout = 5 * time.Second
	healthTimeout     = 2 * time.Second
)

var errUnhealthy = errors.New("typesense reported unhealthy")

// Client owns the connection to the search cluster
type Client struct {
	client *typesense.Client
}

// NewClient connects to Typesense and retries until the health endpoint
// answers ok or ctx ends.
func NewClient(ctx context.Context, cfg *config.TypesenseConfig) (*Client, error) {
	ts := typesense.NewClient(
		typesense.WithServer(cfg.URL),
		typesense.WithAPIKey(cfg.APIKey),
		typesense.WithConnectionTimeout(connectionTimeout),
	)

	probe := func(ctx context.Context) error {
		ok, err := ts.Health(ctx, healthTimeout)
		switch {
		case err != nil:
			return err
		case !ok:
			return errUnhealthy
		}
		return nil
	}
	if err := retry.Do(ctx, retry.DefaultConfig(), "typesense", probe); err != nil {
		return nil, fmt.Errorf("typesense at %s unavailable: %w", cfg.URL, err)
	}

	log.Info().Str("url", cfg.URL).Msg("search cluster ready")
	return &Client{client: ts}, nil
}

func (c *Client) Client() *typesense.Client {
	return c.client
}
