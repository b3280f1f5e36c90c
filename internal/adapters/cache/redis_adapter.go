package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dinewise/backend/internal/domain/providers"
	redisclient "github.com/dinewise/backend/internal/infrastructure/clients/redis"
)

const scanBatchSize = 100

// RedisAdapter is the Redis-backed providers.CacheProvider
type RedisAdapter struct {
	client *redisclient.Client
}

func NewRedisAdapter(client *redisclient.Client) providers.CacheProvider {
	return &RedisAdapter{client: client}
}

func (a *RedisAdapter) rdb() *redis.Client {
	return a.client.Client()
}

func cacheError(op, key string, err error) error {
	return fmt.Errorf("cache %s %q: %w", op, key, err)
}

// Get returns providers.ErrCacheMiss for an absent key
func (a *RedisAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := a.rdb().Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, providers.ErrCacheMiss
	case err != nil:
		return nil, cacheError("get", key, err)
	}
	return value, nil
}

func (a *RedisAdapter) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	ttl := time.Duration(expirationSeconds) * time.Second
	if err := a.rdb().Set(ctx, key, value, ttl).Err(); err != nil {
		return cacheError("set", key, err)
	}
	return nil
}

func (a *RedisAdapter) Delete(ctx context.Context, key string) error {
	if err := a.rdb().Del(ctx, key).Err(); err != nil {
		return cacheError("delete", key, err)
	}
	return nil
}

// DeletePattern walks the keyspace with SCAN and deletes each matching batch
func (a *RedisAdapter) DeletePattern(ctx context.Context, pattern string) error {
	iter := a.rdb().Scan(ctx, 0, pattern, scanBatchSize).Iterator()
	batch := make([]string, 0, scanBatchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		err := a.rdb().Del(ctx, batch...).Err()
		batch = batch[:0]
		return err
	}

	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatchSize {
			if err := flush(); err != nil {
				return cacheError("delete", pattern, err)
			}
		}
	}
	if err := iter.Err(); err != nil {
		return cacheError("scan", pattern, err)
	}
	if err := flush(); err != nil {
		return cacheError("delete", pattern, err)
	}
	return nil
}

func (a *RedisAdapter) Exists(ctx context.Context, key string) (bool, error) {
	n, err := a.rdb().Exists(ctx, key).Result()
	if err != nil {
		return false, cacheError("exists", key, err)
	}
	return n > 0, nil
}

// Incr creates the key at 1 when it does not exist yet
func (a *RedisAdapter) Incr(ctx context.Context, key string) (int64, error) {
	n, err := a.rdb().Incr(ctx, key).Result()
	if err != nil {
		return 0, cacheError("incr", key, err)
	}
	return n, nil
}
