package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tre_crm/platform/logger"

	"github.com/redis/go-redis/v9"
)

// SnapshotCacheKey holds the JSON encoded unfiltered lead listing.
const SnapshotCacheKey = "tre:leads:snapshot"

// CachedReader keeps the full lead snapshot in Redis for a short TTL.
// Filtered listings go straight to the wrapped reader. Redis failures are
// logged and fall back to the wrapped reader.
type CachedReader struct {
	next LeadReader
	rdb  *redis.Client
	ttl  time.Duration
	log  *logger.Logger
}

func NewCachedReader(next LeadReader, rdb *redis.Client, ttl time.Duration, log *logger.Logger) *CachedReader {
	return &CachedReader{next: next, rdb: rdb, ttl: ttl, log: log}
}

func (c *CachedReader) ListLeads(ctx context.Context, filter LeadFilter) ([]Lead, error) {
	if !filter.IsZero() {
		return c.next.ListLeads(ctx, filter)
	}

	raw, err := c.rdb.Get(ctx, SnapshotCacheKey).Bytes()
	switch {
	case err == nil:
		var leads []Lead
		jsonErr := json.Unmarshal(raw, &leads)
		if jsonErr == nil {
			c.log.CacheEvent("hit", SnapshotCacheKey, nil)
			return leads, nil
		}
		c.log.CacheEvent("decode_failed", SnapshotCacheKey, jsonErr)
	case errors.Is(err, redis.Nil):
		c.log.CacheEvent("miss", SnapshotCacheKey, nil)
	default:
		c.log.CacheEvent("get_failed", SnapshotCacheKey, err)
	}

	leads, err := c.next.ListLeads(ctx, filter)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(leads); err == nil {
		if err := c.rdb.Set(ctx, SnapshotCacheKey, encoded, c.ttl).Err(); err != nil {
			c.log.CacheEvent("set_failed", SnapshotCacheKey, err)
		}
	}

	return leads, nil
}

// Invalidate drops the cached snapshot.
func (c *CachedReader) Invalidate(ctx context.Context) error {
	if err := c.rdb.Del(ctx, SnapshotCacheKey).Err(); err != nil {
		return fmt.Errorf("invalidate lead snapshot: %w", err)
	}
	return nil
}
