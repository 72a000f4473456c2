package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bnema/walcache/internal/domain/entity"
	"github.com/bnema/walcache/internal/domain/repository"
	"github.com/bnema/walcache/internal/logging"
)

const cacheEntryColumns = `key, file_path, size, created_time, last_accessed,
	access_count, backend, image_hash, compressed`

// writeLock serializes writers sharing one database. SQLite allows a single
// writer; queuing here keeps busy_timeout from being the only backpressure.
type writeLock struct {
	mu sync.Mutex
	db *sql.DB
}

func (w *writeLock) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.db.ExecContext(ctx, query, args...)
}

type cacheEntryRepo struct {
	db    *sql.DB
	write *writeLock
}

// Repositories groups the repositories sharing one database and its writer lock.
type Repositories struct {
	Entries   repository.CacheEntryRepository
	Snapshots repository.StatsSnapshotRepository
}

// NewRepositories creates the SQLite-backed artifact index and stats history.
func NewRepositories(db *sql.DB) Repositories {
	w := &writeLock{db: db}
	return Repositories{
		Entries:   &cacheEntryRepo{db: db, write: w},
		Snapshots: &statsSnapshotRepo{db: db, write: w},
	}
}

func (r *cacheEntryRepo) Get(ctx context.Context, key string) (*entity.CacheEntry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+cacheEntryColumns+` FROM cache_entries WHERE key = ?`, key)

	entry, err := scanCacheEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cache entry %s: %w", key, err)
	}
	return entry, nil
}

func (r *cacheEntryRepo) Upsert(ctx context.Context, entry *entity.CacheEntry) error {
	if entry == nil {
		return fmt.Errorf("upsert cache entry: nil entry")
	}
	log := logging.FromContext(ctx)
	log.Trace().Str("key", entry.Key).Int64("size", entry.Size).Msg("upserting cache entry")

	_, err := r.write.exec(ctx,
		`INSERT OR REPLACE INTO cache_entries (`+cacheEntryColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.Key,
		entry.FilePath,
		entry.Size,
		toUnixNano(entry.CreatedAt),
		toUnixNano(entry.LastAccessedAt),
		entry.AccessCount,
		entry.Backend,
		entry.ImageHash,
		boolToInt(entry.Compressed),
	)
	if err != nil {
		return fmt.Errorf("upsert cache entry %s: %w", entry.Key, err)
	}
	return nil
}

func (r *cacheEntryRepo) Touch(ctx context.Context, key string, accessedAt time.Time) error {
	_, err := r.write.exec(ctx,
		`UPDATE cache_entries SET last_accessed = ?, access_count = access_count + 1 WHERE key = ?`,
		toUnixNano(accessedAt), key)
	if err != nil {
		return fmt.Errorf("touch cache entry %s: %w", key, err)
	}
	return nil
}

func (r *cacheEntryRepo) Delete(ctx context.Context, key string) error {
	if _, err := r.write.exec(ctx, `DELETE FROM cache_entries WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete cache entry %s: %w", key, err)
	}
	return nil
}

func (r *cacheEntryRepo) DeleteAll(ctx context.Context) error {
	r.write.mu.Lock()
	defer r.write.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin clear: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM cache_entries`); err != nil {
		return fmt.Errorf("clear cache entries: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM cache_stats`); err != nil {
		return fmt.Errorf("clear cache stats: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit clear: %w", err)
	}
	return nil
}

func (r *cacheEntryRepo) List(ctx context.Context) ([]*entity.CacheEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+cacheEntryColumns+` FROM cache_entries ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list cache entries: %w", err)
	}
	defer rows.Close()

	var entries []*entity.CacheEntry
	for rows.Next() {
		entry, err := scanCacheEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cache entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list cache entries: %w", err)
	}
	return entries, nil
}

func (r *cacheEntryRepo) Totals(ctx context.Context) (entity.CacheTotals, error) {
	var totals entity.CacheTotals
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(size), 0) FROM cache_entries`,
	).Scan(&totals.Entries, &totals.Size)
	if err != nil {
		return entity.CacheTotals{}, fmt.Errorf("cache totals: %w", err)
	}
	return totals, nil
}

func (r *cacheEntryRepo) MostAccessed(ctx context.Context, limit int) ([]entity.KeyCount, error) {
	if limit <= 0 {
		return []entity.KeyCount{}, nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT key, access_count FROM cache_entries
		 ORDER BY access_count DESC, last_accessed DESC, key ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("most accessed: %w", err)
	}
	defer rows.Close()

	out := make([]entity.KeyCount, 0, limit)
	for rows.Next() {
		var kc entity.KeyCount
		if err := rows.Scan(&kc.Key, &kc.Count); err != nil {
			return nil, fmt.Errorf("scan most accessed: %w", err)
		}
		out = append(out, kc)
	}
	return out, rows.Err()
}

func (r *cacheEntryRepo) BackendUsage(ctx context.Context) (map[string]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT backend, COUNT(*) FROM cache_entries GROUP BY backend`)
	if err != nil {
		return nil, fmt.Errorf("backend usage: %w", err)
	}
	defer rows.Close()

	usage := make(map[string]int64)
	for rows.Next() {
		var (
			backend string
			count   int64
		)
		if err := rows.Scan(&backend, &count); err != nil {
			return nil, fmt.Errorf("scan backend usage: %w", err)
		}
		usage[backend] = count
	}
	return usage, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCacheEntry(row rowScanner) (*entity.CacheEntry, error) {
	var (
		e                     entity.CacheEntry
		created, lastAccessed int64
		compressed            int64
	)
	if err := row.Scan(
		&e.Key,
		&e.FilePath,
		&e.Size,
		&created,
		&lastAccessed,
		&e.AccessCount,
		&e.Backend,
		&e.ImageHash,
		&compressed,
	); err != nil {
		return nil, err
	}
	e.CreatedAt = fromUnixNano(created)
	e.LastAccessedAt = fromUnixNano(lastAccessed)
	e.Compressed = compressed != 0
	return &e, nil
}

func toUnixNano(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromUnixNano(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n)
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
