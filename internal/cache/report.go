// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// report.go provides a Valkey-backed materialized snapshot store for
// report results. A refresh writes the whole serialized report under a
// single key (atomic replace), so concurrent readers observe either the
// previous snapshot or the new one, never a partial state.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// reportKeyPrefix is the Valkey key prefix for report snapshots.
	reportKeyPrefix = "report:"

	// DefaultReportTTL bounds snapshot staleness when the scheduled
	// refresh stops running.
	DefaultReportTTL = 15 * time.Minute
)

// ReportCache stores serialized report snapshots in Valkey.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewReportCache creates a new report snapshot cache backed by the given
// Valkey client.
func NewReportCache(client *redis.Client, ttl time.Duration) *ReportCache {
	if ttl == 0 {
		ttl = DefaultReportTTL
	}
	return &ReportCache{client: client, ttl: ttl}
}

// Get retrieves a cached snapshot. Returns false on miss; cache errors are
// logged and treated as misses so reports fall back to live computation.
func (rc *ReportCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := rc.client.Get(ctx, reportKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("report cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("report cache hit", "key", key)
	return val, true
}

// Set stores a serialized snapshot with the configured TTL. The write is a
// single SET, making a refresh safe to run concurrently with readers.
func (rc *ReportCache) Set(ctx context.Context, key string, snapshot []byte) {
	if err := rc.client.Set(ctx, reportKeyPrefix+key, snapshot, rc.ttl).Err(); err != nil {
		slog.Warn("report cache set error", "key", key, "error", err)
	}
}

// Invalidate removes a snapshot, forcing the next read to recompute.
func (rc *ReportCache) Invalidate(ctx context.Context, key string) {
	if err := rc.client.Del(ctx, reportKeyPrefix+key).Err(); err != nil {
		slog.Warn("report cache invalidate error", "key", key, "error", err)
	}
	slog.Debug("report cache invalidated", "key", key)
}

// TopProductsKey returns the cache key for the top-products snapshot.
func TopProductsKey() string {
	return "top_products"
}
