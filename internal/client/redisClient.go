package client

import (
	"context"
	"fmt"
	"time"
	"totaro-checkout/internal/config"

	"github.com/redis/go-redis/v9"
)

// InitRedisClient returns nil when REDIS_ADDR is unset; callers fall back to a no-op guard.
func InitRedisClient(ctx context.Context, cfg *config.Redis) (*redis.Client, error) {
	if cfg.Addr == "" {
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect redis: %w", err)
	}
	return rdb, nil
}
