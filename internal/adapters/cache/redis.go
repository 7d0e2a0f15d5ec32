package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/example/streak/internal/ports/secondary"
)

// scanBatch is the COUNT hint for each SCAN round during invalidation.
const scanBatch = 500

// RedisCache implements secondary.AnalyticsCache on Redis.
type RedisCache struct {
	client *redis.Client
}

// NewRedisClient creates a client with the timeouts used by the cache.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

// NewRedisCache wraps an existing client.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Ping checks connectivity.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Get returns the cached value and whether it was found.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return b, true, nil
}

// Set stores value under key for ttl.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Generation returns the user's current cache generation, 0 when unset.
func (c *RedisCache) Generation(ctx context.Context, userID string) (int64, error) {
	key := secondary.AnalyticsGenerationKey(userID)
	n, err := c.client.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get %s: %w", key, err)
	}
	return n, nil
}

// InvalidateUser bumps the user's generation with INCR and then deletes
// every key under the user's prefix using SCAN, so the server is never
// blocked by KEYS.
func (c *RedisCache) InvalidateUser(ctx context.Context, userID string) error {
	genKey := secondary.AnalyticsGenerationKey(userID)
	if err := c.client.Incr(ctx, genKey).Err(); err != nil {
		return fmt.Errorf("redis incr %s: %w", genKey, err)
	}

	pattern := secondary.AnalyticsUserPrefix(userID) + "*"

	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, scanBatch).Result()
		if err != nil {
			return fmt.Errorf("redis scan %s: %w", pattern, err)
		}
		if len(keys) > 0 {
			pipe := c.client.Pipeline()
			for _, k := range keys {
				pipe.Del(ctx, k)
			}
			if _, err := pipe.Exec(ctx); err != nil {
				return fmt.Errorf("redis delete %s: %w", pattern, err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

// Close releases the client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

var _ secondary.AnalyticsCache = (*RedisCache)(nil)
