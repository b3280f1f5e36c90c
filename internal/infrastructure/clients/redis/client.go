package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/dinewise/backend/pkg/config"
	"github.com/dinewise/backend/pkg/retry"
)

const pingTimeout = 2 * time.Second

// Client wraps the go-redis client shared by the cache and the event bus
type Client struct {
	client *redis.Client
}

// NewClient dials Redis and retries PING until it answers or ctx ends
func NewClient(ctx context.Context, cfg *config.RedisConfig) (*Client, error) {
	addr := cfg.RedisAddr()
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	c := &Client{client: rdb}
	err := retry.Do(ctx, retry.DefaultConfig(), "redis", func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		return c.Ping(pingCtx)
	})
	if err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis at %s unavailable: %w", addr, err)
	}

	log.Info().Str("addr", addr).Int("db", cfg.DB).Msg("redis ready")
	return c, nil
}

// NewFromClient wraps an already configured go-redis client
func NewFromClient(rdb *redis.Client) *Client {
	return &Client{client: rdb}
}

func (c *Client) Client() *redis.Client {
	return c.client
}

func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.client.Close()
}
