package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"gamehub_backend/internal/config"
)

// Client wraps the go-redis client with health checking capabilities.
type Client struct {
	*redis.Client
}

// New creates a new Redis client from the provided configuration.
// Returns a nil client if REDIS_URL is empty (Redis not configured).
func New(cfg *config.Config, logger *zap.Logger) (*Client, func(), error) {
	if cfg.RedisURL == "" {
		logger.Info("REDIS_URL not set, Redis client not initialized")
		return nil, func() {}, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse redis URL: %w", err)
	}
	if cfg.RedisPoolSize > 0 {
		opts.PoolSize = cfg.RedisPoolSize
	}
	if cfg.RedisDialTimeout > 0 {
		opts.DialTimeout = cfg.RedisDialTimeout
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("redis ping failed: %w", err)
	}

	cleanup := func() {
		if err := client.Close(); err != nil {
			logger.Warn("Failed to close Redis client", zap.Error(err))
		}
	}
	logger.Info("Redis client connected", zap.String("addr", opts.Addr))
	return &Client{Client: client}, cleanup, nil
}

// Health checks if the Redis connection is healthy.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}
