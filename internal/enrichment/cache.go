package enrichment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned when a key is not in the fact cache.
var ErrCacheMiss = errors.New("fact cache miss")

// FactCache is a redis-backed cache for provider fact payloads. Caching
// belongs to the providers, never to the optimization core.
type FactCache struct {
	client     *redis.Client
	expiration time.Duration
}

func NewFactCache(client *redis.Client, expiration time.Duration) *FactCache {
	return &FactCache{
		client:     client,
		expiration: expiration,
	}
}

func (c *FactCache) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	if err := c.client.Set(ctx, key, data, c.expiration).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}

	return nil
}

func (c *FactCache) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return ErrCacheMiss
		}
		return fmt.Errorf("failed to get cache: %w", err)
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return fmt.Errorf("failed to unmarshal value: %w", err)
	}

	return nil
}

// FactCacheKey builds the per-provider, per-player cache key.
func FactCacheKey(provider, playerID string) string {
	return fmt.Sprintf("facts:%s:%s", provider, playerID)
}

// FeedCacheKey builds the cache key for a whole provider feed snapshot.
func FeedCacheKey(provider string) string {
	return fmt.Sprintf("feed:%s", provider)
}
