package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"skillpass/pkg/sentinel"
)

const redisKeyPrefix = "content:blob:"

// RedisCache persists metadata blobs in Redis. Entries carry a generous TTL
// purely to bound memory; the data itself never goes stale.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis constructs a Redis-backed blob cache.
func NewRedis(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisCache{client: client, ttl: ttl}
}

// Get returns the cached blob for the address or ErrNotFound.
func (c *RedisCache) Get(ctx context.Context, address string) ([]byte, error) {
	blob, err := c.client.Get(ctx, redisKeyPrefix+address).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return blob, nil
}

// Set stores a blob under its address.
func (c *RedisCache) Set(ctx context.Context, address string, blob []byte) error {
	if err := c.client.Set(ctx, redisKeyPrefix+address, blob, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

var _ Cache = (*RedisCache)(nil)
