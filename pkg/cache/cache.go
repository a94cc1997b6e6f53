package cache

import (
	"context"
	"log/slog"

	"gigscout/pkg/db"
)

// Cacher defines the caching interface.
type Cacher interface {
	GetCache(ctx context.Context, key string) ([]byte, bool)
	SetCache(ctx context.Context, key string, val []byte) error
}

// SQLiteCache implements Cacher using pkg/db.
type SQLiteCache struct {
	db *db.DB
}

// NewSQLiteCache creates a new cache.
func NewSQLiteCache(d *db.DB) *SQLiteCache {
	return &SQLiteCache{db: d}
}

func (c *SQLiteCache) GetCache(ctx context.Context, key string) ([]byte, bool) {
	val, ok, err := c.db.GetCacheEntry(key)
	if err != nil {
		// A broken cache read is a miss, not a failure
		slog.Warn("Cache read failed", "key", key, "error", err)
		return nil, false
	}
	return val, ok
}

func (c *SQLiteCache) SetCache(ctx context.Context, key string, val []byte) error {
	return c.db.PutCacheEntry(key, val)
}

// NullCache is a Cacher that never hits. Used when caching is disabled.
type NullCache struct{}

func (NullCache) GetCache(ctx context.Context, key string) ([]byte, bool) { return nil, false }
func (NullCache) SetCache(ctx context.Context, key string, val []byte) error {
	return nil
}
