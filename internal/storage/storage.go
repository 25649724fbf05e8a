// ABOUTME: Verdict cache selection for the fluency checker
// ABOUTME: Opens the configured backend, local SQLite or cloud-synced charm KV
package storage

import (
	"context"
	"fmt"

	"github.com/harper/fluency-checker/internal/charm"
	"github.com/harper/fluency-checker/internal/config"
	"github.com/harper/fluency-checker/internal/models"
	"github.com/harper/fluency-checker/internal/storage/sqlite"
)

// Cache is a persistent verdict store keyed by prompt hash
type Cache interface {
	Get(ctx context.Context, key string) (models.Verdict, bool, error)
	Put(ctx context.Context, key string, v models.Verdict) error
	Count(ctx context.Context) (int, error)
	Clear(ctx context.Context) error
	Close() error
}

var (
	_ Cache = (*sqlite.DB)(nil)
	_ Cache = (*charm.Client)(nil)
)

// Open returns the cache backend named by cfg.Cache, or nil when caching is off
func Open(cfg *config.Config) (Cache, error) {
	switch cfg.Cache {
	case config.CacheNone, "":
		return nil, nil
	case config.CacheSQLite:
		db, err := sqlite.Open(cfg.CachePath)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite cache: %w", err)
		}
		return db, nil
	case config.CacheCharm:
		client, err := charm.NewClient(&charm.Config{
			Host:     cfg.CharmHost,
			DBName:   cfg.CharmDBName,
			AutoSync: cfg.AutoSync,
		})
		if err != nil {
			return nil, fmt.Errorf("opening charm cache: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache)
	}
}
