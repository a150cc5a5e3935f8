// Package cache opens the Redis connection used by the "redis" slot driver.
package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/shashiranjanraj/storefront/config"
)

// Connect initialises a Redis client from config and verifies it with a ping.
// Returns an error so the caller can fall back or abort.
func Connect(ctx context.Context) (*redis.Client, error) {
	return Dial(ctx, config.RedisAddr(), config.RedisPassword())
}

// Dial is Connect with an explicit address.
func Dial(ctx context.Context, addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("cache: redis ping: %w", err)
	}
	return rdb, nil
}
