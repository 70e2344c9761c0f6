// Package cache implements the bucket cache on Redis.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisBucketCache implements the adapter.BucketCache interface on Redis.
// A miss is (nil, nil); transport failures surface as errors and callers
// degrade to reparsing.
type RedisBucketCache struct {
	client *redis.Client
}

// NewRedisBucketCache creates a cache on an existing Redis client.
func NewRedisBucketCache(client *redis.Client) *RedisBucketCache {
	return &RedisBucketCache{client: client}
}

// NewRedisClient builds a Redis client from a URL plus overrides.
func NewRedisClient(url, password string, db int) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	if password != "" {
		opts.Password = password
	}
	if db != 0 {
		opts.DB = db
	}
	return redis.NewClient(opts), nil
}

// Get fetches a cached payload by key.
func (c *RedisBucketCache) Get(ctx context.Context, key string) ([]byte, error) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return payload, nil
}

// Set stores a payload under the key for the given TTL.
func (c *RedisBucketCache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
