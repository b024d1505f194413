package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// Loader produces the value for a cache miss
type Loader func(ctx context.Context) (any, error)

// JSONCache is a read-through cache that stores JSON values under a key
// prefix. Concurrent misses for one key share a single load. A nil client
// turns every call into a direct load.
type JSONCache struct {
	client *redis.Client
	prefix string
	group  singleflight.Group
	logger *slog.Logger
	onHit  func(key string)
	onMiss func(key string)
}

// NewJSONCache creates a cache over client, which may be nil
func NewJSONCache(client *redis.Client, prefix string, logger *slog.Logger) *JSONCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &JSONCache{client: client, prefix: prefix, logger: logger}
}

// OnResult registers hit/miss observers
func (c *JSONCache) OnResult(hit, miss func(key string)) {
	c.onHit, c.onMiss = hit, miss
}

// GetOrLoad decodes the cached value for key into dest, or calls load,
// stores its result for ttl and decodes that into dest. Redis failures fall
// back to load and are only logged.
func (c *JSONCache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, dest any, load Loader) error {
	fullKey := c.prefix + key

	if c.client != nil {
		raw, err := c.client.Get(ctx, fullKey).Bytes()
		switch {
		case err == nil:
			if jsonErr := json.Unmarshal(raw, dest); jsonErr == nil {
				c.observe(c.onHit, key)
				return nil
			}
			c.logger.Warn("Discarding undecodable cache entry", "key", fullKey)
		case !errors.Is(err, redis.Nil):
			c.logger.Warn("Cache read failed", "key", fullKey, "error", err)
		}
	}
	c.observe(c.onMiss, key)

	raw, err, _ := c.group.Do(fullKey, func() (any, error) {
		value, err := load(ctx)
		if err != nil {
			return nil, err
		}
		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("failed to encode cache value: %w", err)
		}
		if c.client != nil {
			if err := c.client.Set(ctx, fullKey, encoded, ttl).Err(); err != nil {
				c.logger.Warn("Cache write failed", "key", fullKey, "error", err)
			}
		}
		return encoded, nil
	})
	if err != nil {
		return err
	}

	return json.Unmarshal(raw.([]byte), dest)
}

// Invalidate drops key from the cache
func (c *JSONCache) Invalidate(ctx context.Context, key string) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, c.prefix+key).Err()
}

func (c *JSONCache) observe(fn func(string), key string) {
	if fn != nil {
		fn(key)
	}
}
