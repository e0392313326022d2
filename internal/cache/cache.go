// Package cache provides an optional Redis-backed JSON cache used to shield
// external data providers (weather, flights) from repeated identical lookups.
// Trip data is never cached — mutations always read through to the store.
//
// The cache degrades gracefully: a nil *Cache is valid and behaves as a
// permanent miss, so callers never need to branch on whether Redis is
// configured.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache wraps a Redis client with JSON encode/decode and a fixed TTL.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis at addr and verifies the connection with a short
// ping. Returns an error when the server is unreachable; callers typically
// log it and continue with a nil cache.
func New(addr, password string, ttl time.Duration) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("cache.New: ping: %w", err)
	}

	return &Cache{client: client, ttl: ttl}, nil
}

// Get unmarshals the cached value for key into dest.
// Returns false on a miss (including when the cache itself is nil).
func (c *Cache) Get(ctx context.Context, key string, dest any) (bool, error) {
	if c == nil {
		return false, nil
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("cache.Get: %w", err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("cache.Get: unmarshal: %w", err)
	}
	return true, nil
}

// Set stores v under key for the cache's TTL. A nil cache is a no-op.
func (c *Cache) Set(ctx context.Context, key string, v any) error {
	if c == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache.Set: marshal: %w", err)
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache.Set: %w", err)
	}
	return nil
}

// Healthy reports whether the underlying Redis connection responds to a ping.
// A nil cache reports false.
func (c *Cache) Healthy(ctx context.Context) bool {
	if c == nil {
		return false
	}
	return c.client.Ping(ctx).Err() == nil
}
