// Package redis provides the Redis client used for token storage.
// This is part of the platform layer and contains no business logic.
package redis

import (
	"context"

	"storefront_backend/platform/config"

	"github.com/redis/go-redis/v9"
)

// NewClient creates a Redis client from the configured URL and verifies
// connectivity before returning.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return client, nil
}
