// Package service exposes the query engine over HTTP with a redis-backed
// query cache, Prometheus metrics, and health probes.
package service

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/zloyaloha/web-searcher/internal/searcher"
	"github.com/zloyaloha/web-searcher/pkg/config"
	"github.com/zloyaloha/web-searcher/pkg/logger"
	"github.com/zloyaloha/web-searcher/pkg/metrics"
	pkgredis "github.com/zloyaloha/web-searcher/pkg/redis"
)

const cacheKeyPrefix = "search:"

// QueryCache memoizes search results in Redis and collapses concurrent
// identical queries through singleflight. A nil redis client disables the
// cache but keeps the collapsing.
type QueryCache struct {
	client  *pkgredis.Client
	cfg     config.RedisConfig
	group   singleflight.Group
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewQueryCache creates a QueryCache. client may be nil.
func NewQueryCache(client *pkgredis.Client, cfg config.RedisConfig, m *metrics.Metrics) *QueryCache {
	return &QueryCache{
		client:  client,
		cfg:     cfg,
		metrics: m,
		logger:  logger.WithComponent("query-cache"),
	}
}

func (c *QueryCache) get(ctx context.Context, key string) ([]searcher.Result, bool) {
	if c.client == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, key)
	if err != nil {
		if !pkgredis.IsNilError(err) {
			c.logger.Error("cache get failed", "key", key, "error", err)
		}
		c.metrics.CacheMissesTotal.Inc()
		return nil, false
	}
	var results []searcher.Result
	if err := json.Unmarshal([]byte(data), &results); err != nil {
		c.logger.Error("cache unmarshal failed", "key", key, "error", err)
		c.metrics.CacheMissesTotal.Inc()
		return nil, false
	}
	c.metrics.CacheHitsTotal.Inc()
	return results, true
}

func (c *QueryCache) set(ctx context.Context, key string, results []searcher.Result) {
	if c.client == nil {
		return
	}
	data, err := json.Marshal(results)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, key, data, c.cfg.CacheTTL); err != nil {
		c.logger.Error("cache set failed", "key", key, "error", err)
	}
}

// GetOrCompute returns the cached results for query, or runs compute once for
// all concurrent callers and stores its result. The second return reports a
// hit on the first cache lookup; results found by the re-check inside the
// collapsed call are returned with false.
func (c *QueryCache) GetOrCompute(
	ctx context.Context,
	query string,
	limit int,
	compute func() []searcher.Result,
) ([]searcher.Result, bool) {
	key := c.buildKey(query, limit)
	if results, ok := c.get(ctx, key); ok {
		return results, true
	}
	val, _, _ := c.group.Do(key, func() (interface{}, error) {
		if results, ok := c.get(ctx, key); ok {
			return results, nil
		}
		results := compute()
		c.set(ctx, key, results)
		return results, nil
	})
	return val.([]searcher.Result), false
}

func (c *QueryCache) buildKey(query string, limit int) string {
	sum := sha256.Sum256([]byte(query))
	return fmt.Sprintf("%s%x:%d", cacheKeyPrefix, sum[:8], limit)
}
