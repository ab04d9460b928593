// Package cache provides an explicit, invalidate-on-write cache for
// dashboard summaries, keyed by (scope, window). Cache misses and Redis
// failures degrade to a recompute; the cache is never authoritative.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Geraldo-Morris/tvriapp/internal/stats"
)

const keyPrefix = "stats:"

// StatsCache stores computed summaries in Redis with a bounded TTL.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewStatsCache builds the cache. A nil client disables caching.
func NewStatsCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *StatsCache {
	return &StatsCache{client: client, ttl: ttl, logger: logger}
}

// Key derives the cache key for a viewer scope and window.
func Key(scopeKey string, window stats.Window) string {
	return fmt.Sprintf("%s%s:%s", keyPrefix, scopeKey, window)
}

// Get returns the cached summary for key, or false on miss.
func (c *StatsCache) Get(ctx context.Context, key string) (*stats.Summary, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("stats cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	var summary stats.Summary
	if err := json.Unmarshal(raw, &summary); err != nil {
		c.logger.Warn("stats cache entry corrupt", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return &summary, true
}

// Set stores the summary under key.
func (c *StatsCache) Set(ctx context.Context, key string, summary *stats.Summary) {
	if c == nil || c.client == nil || summary == nil {
		return
	}
	raw, err := json.Marshal(summary)
	if err != nil {
		c.logger.Warn("stats cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("stats cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate drops every cached summary. Called after each report write so
// dashboards never serve state older than the last mutation.
func (c *StatsCache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	iter := c.client.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn("stats cache scan failed", zap.Error(err))
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("stats cache invalidation failed", zap.Error(err))
	}
}
