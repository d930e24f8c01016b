package cmd

import (
	"fmt"
	"log/slog"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/tradeflow-io/tradeflow/pkg/resolver"
)

// NewTemplateCache returns a Redis-backed cache when a URL is given,
// otherwise a process-local in-memory one. Multi-instance deployments share
// resolutions (and invalidations) through Redis.
func NewTemplateCache(redisURL string, ttl time.Duration, logger *slog.Logger) (resolver.TemplateCache, error) {
	if redisURL == "" {
		return resolver.NewMemoryCache(), nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	return resolver.NewRedisCache(redis.NewClient(opts), ttl, logger), nil
}
