// Package cache keeps the latest report per client in Redis so the
// dashboard API can answer without touching disk or Postgres.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/adscope/meta-ads-monitor/internal/config"
	"github.com/adscope/meta-ads-monitor/internal/report"
)

// ErrMiss is returned when no report is cached for a client.
var ErrMiss = errors.New("cache miss")

// ReportCache stores the latest report per client with a TTL.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis using the cache configuration.
func New(cfg config.CacheConfig) *ReportCache {
	return &ReportCache{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		ttl: cfg.TTL(),
	}
}

// NewWithClient wraps an existing Redis client; used by tests.
func NewWithClient(client *redis.Client, ttl time.Duration) *ReportCache {
	return &ReportCache{client: client, ttl: ttl}
}

func key(client string) string {
	return fmt.Sprintf("adscope:report:%s", client)
}

// Put stores the report as the latest for its client.
func (c *ReportCache) Put(ctx context.Context, rep *report.Report) error {
	data, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	if err := c.client.Set(ctx, key(rep.Client), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("caching report: %w", err)
	}
	return nil
}

// Get returns the latest cached report for a client, or ErrMiss.
func (c *ReportCache) Get(ctx context.Context, client string) (*report.Report, error) {
	data, err := c.client.Get(ctx, key(client)).Bytes()
	if err == redis.Nil {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("reading cached report: %w", err)
	}

	var rep report.Report
	if err := json.Unmarshal(data, &rep); err != nil {
		return nil, fmt.Errorf("decoding cached report: %w", err)
	}
	return &rep, nil
}

// Invalidate drops the cached report for a client.
func (c *ReportCache) Invalidate(ctx context.Context, client string) error {
	return c.client.Del(ctx, key(client)).Err()
}

// Ping verifies the Redis connection.
func (c *ReportCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
