// Package cache stores generated artifacts in the KV store with the time
// they were produced, so expensive generation calls are reused within a
// freshness window.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/vladimiradmaev/footprint-helper/internal/domain"
	apperrors "github.com/vladimiradmaev/footprint-helper/internal/errors"
	"github.com/vladimiradmaev/footprint-helper/internal/logger"
	"github.com/vladimiradmaev/footprint-helper/internal/storage"
)

// DefaultWindow is how long a cached artifact stays fresh
const DefaultWindow = 24 * time.Hour

// Cache is a thin layer over a KVStore
type Cache struct {
	kv  storage.KVStore
	now func() time.Time
}

// New creates a cache. A nil now uses time.Now.
func New(kv storage.KVStore, now func() time.Time) *Cache {
	if now == nil {
		now = time.Now
	}
	return &Cache{kv: kv, now: now}
}

// Get returns the cached value under key when it is younger than window,
// otherwise it calls producer and writes the result through. force skips
// the freshness check. The bool reports a cache hit. A producer error is
// returned as is and nothing is written; a failed write is only logged.
func Get[T any](ctx context.Context, c *Cache, key string, window time.Duration, force bool, producer func(context.Context) (T, error)) (T, bool, error) {
	if !force {
		if v, ok := lookup[T](ctx, c, key, window); ok {
			return v, true, nil
		}
	}

	value, err := producer(ctx)
	if err != nil {
		var zero T
		return zero, false, err
	}

	c.store(ctx, key, domain.CachedArtifact[T]{Value: value, CachedAt: c.now()})
	return value, false, nil
}

// Invalidate drops the entry under key
func (c *Cache) Invalidate(ctx context.Context, key string) {
	if err := c.kv.Remove(ctx, key); err != nil {
		logger.Warn("Failed to invalidate cache entry", "key", key, "error", err)
	}
}

func lookup[T any](ctx context.Context, c *Cache, key string, window time.Duration) (T, bool) {
	var zero T

	raw, ok, err := c.kv.Get(ctx, key)
	if err != nil {
		logger.Warn("Cache read failed", apperrors.NewPersistenceError(err, key).LogFields()...)
		return zero, false
	}
	if !ok {
		return zero, false
	}

	var entry domain.CachedArtifact[T]
	if err := json.Unmarshal([]byte(raw), &entry); err != nil || entry.CachedAt.IsZero() {
		logger.Warn("Discarding corrupt cache entry", "key", key, "error", err)
		c.Invalidate(ctx, key)
		return zero, false
	}

	if c.now().Sub(entry.CachedAt) >= window {
		logger.Debug("Cache entry expired", "key", key, "cached_at", entry.CachedAt)
		return zero, false
	}
	return entry.Value, true
}

func (c *Cache) store(ctx context.Context, key string, entry any) {
	data, err := json.Marshal(entry)
	if err == nil {
		err = c.kv.Set(ctx, key, string(data))
	}
	if err != nil {
		logger.Warn("Cache write failed", apperrors.NewPersistenceError(err, key).LogFields()...)
	}
}
