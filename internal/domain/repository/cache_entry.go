package repository

import (
	"context"
	"time"

	"github.com/bnema/walcache/internal/domain/entity"
)

// CacheEntryRepository persists the artifact index.
type CacheEntryRepository interface {
	// Get returns the entry for key, or nil if it does not exist.
	Get(ctx context.Context, key string) (*entity.CacheEntry, error)

	// Upsert inserts or replaces an entry.
	Upsert(ctx context.Context, entry *entity.CacheEntry) error

	// Touch sets last_accessed and increments access_count.
	Touch(ctx context.Context, key string, accessedAt time.Time) error

	// Delete removes the entry. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// DeleteAll removes every entry and every stats snapshot.
	DeleteAll(ctx context.Context) error

	// List returns all entries.
	List(ctx context.Context) ([]*entity.CacheEntry, error)

	// Totals returns the entry count and summed size.
	Totals(ctx context.Context) (entity.CacheTotals, error)

	// MostAccessed returns up to limit keys ordered by access_count desc.
	MostAccessed(ctx context.Context, limit int) ([]entity.KeyCount, error)

	// BackendUsage returns the entry count per backend.
	BackendUsage(ctx context.Context) (map[string]int64, error)
}

// StatsSnapshotRepository persists periodic copies of the cache counters.
type StatsSnapshotRepository interface {
	// Save appends a snapshot.
	Save(ctx context.Context, snapshot *entity.StatsSnapshot) error

	// Recent returns up to limit snapshots, newest first.
	Recent(ctx context.Context, limit int) ([]*entity.StatsSnapshot, error)
}
