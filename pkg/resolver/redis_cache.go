package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "tradeflow:template:"

// RedisCache is a TemplateCache shared across engine instances through
// Redis. Cache faults degrade to misses; the resolver then re-reads the
// catalog, so a flaky Redis never breaks resolution.
type RedisCache struct {
	client redis.UniversalClient
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisCache creates a Redis-backed template cache. A zero ttl keeps
// entries until an explicit Clear.
func NewRedisCache(client redis.UniversalClient, ttl time.Duration, logger *slog.Logger) *RedisCache {
	return &RedisCache{
		client: client,
		ttl:    ttl,
		logger: logger.With("module", "template_cache"),
	}
}

func (c *RedisCache) Get(ctx context.Context, key string) (*Resolution, bool) {
	payload, err := c.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.WarnContext(ctx, "Template cache read failed", "key", key, "error", err)
		}

		return nil, false
	}

	var res Resolution
	if err := json.Unmarshal(payload, &res); err != nil {
		c.logger.WarnContext(ctx, "Template cache entry corrupt", "key", key, "error", err)

		return nil, false
	}

	return &res, true
}

func (c *RedisCache) Set(ctx context.Context, key string, res *Resolution) {
	payload, err := json.Marshal(res)
	if err != nil {
		c.logger.WarnContext(ctx, "Template cache marshal failed", "key", key, "error", err)

		return
	}

	if err := c.client.Set(ctx, redisKeyPrefix+key, payload, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "Template cache write failed", "key", key, "error", err)
	}
}

// Clear removes every cached resolution under the tradeflow prefix.
func (c *RedisCache) Clear(ctx context.Context) {
	iter := c.client.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()

	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			c.logger.WarnContext(ctx, "Template cache delete failed", "key", iter.Val(), "error", err)
		}
	}

	if err := iter.Err(); err != nil {
		c.logger.WarnContext(ctx, "Template cache scan failed", "error", err)
	}
}

var _ TemplateCache = (*RedisCache)(nil)
