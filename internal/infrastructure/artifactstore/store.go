// Package artifactstore persists computed color scheme artifacts on disk and
// indexes them in the cache database.
package artifactstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bnema/walcache/internal/application/port"
	"github.com/bnema/walcache/internal/domain/entity"
	"github.com/bnema/walcache/internal/domain/repository"
	"github.com/bnema/walcache/internal/logging"
	"github.com/natefinch/atomic"
)

const (
	schemesDirName = "schemes"
	dirPerm        = 0o750

	// MostAccessedLimit is how many keys Analytics reports.
	MostAccessedLimit = 10
)

// Store is the artifact cache. Get, Put and Remove may run concurrently;
// maintenance passes (Cleanup, Deduplicate, Clear) exclude them.
type Store struct {
	root        string
	schemes     string
	entries     repository.CacheEntryRepository
	snapshots   repository.StatsSnapshotRepository
	now         func() time.Time
	toolVersion string

	maintenance sync.RWMutex

	statsMu sync.Mutex
	stats   entity.CacheStats
}

var _ port.ArtifactCache = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithToolVersion sets the version written in exported reports. An empty
// version keeps "dev".
func WithToolVersion(v string) Option {
	return func(s *Store) {
		if v != "" {
			s.toolVersion = v
		}
	}
}

// New opens a store rooted at dir. Artifacts live under dir/schemes.
func New(dir string, entries repository.CacheEntryRepository, snapshots repository.StatsSnapshotRepository, opts ...Option) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("cache directory cannot be empty")
	}
	s := &Store{
		root:        dir,
		schemes:     filepath.Join(dir, schemesDirName),
		entries:     entries,
		snapshots:   snapshots,
		now:         time.Now,
		toolVersion: "dev",
		stats:       entity.CacheStats{BackendUsage: map[string]int64{}},
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := os.MkdirAll(s.schemes, dirPerm); err != nil {
		return nil, fmt.Errorf("%w: create %s: %w", entity.ErrTransientIO, s.schemes, err)
	}
	return s, nil
}

// Dir returns the cache root.
func (s *Store) Dir() string { return s.root }

// Get returns the artifact stored under key. Every failure is reported as a
// miss; an entry whose bytes are missing or unreadable is purged.
func (s *Store) Get(ctx context.Context, key string) (*entity.Artifact, bool) {
	start := s.now()
	log := logging.FromContext(ctx)

	s.maintenance.RLock()
	defer s.maintenance.RUnlock()

	entry, err := s.entries.Get(ctx, key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache index lookup failed")
		s.recordMiss()
		return nil, false
	}
	if entry == nil {
		s.recordMiss()
		return nil, false
	}

	artifact, err := readArtifact(entry)
	if err != nil {
		log.Debug().Err(err).Str("key", key).Str("path", entry.FilePath).Msg("purging unreadable cache entry")
		s.purge(ctx, entry)
		s.recordMiss()
		return nil, false
	}

	if err := s.entries.Touch(ctx, key, s.now()); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to record cache access")
	}
	s.recordHit(s.now().Sub(start))
	return artifact, true
}

// Put writes artifact under key and registers it in the index. The bytes are
// durable before the entry becomes visible.
func (s *Store) Put(ctx context.Context, key string, artifact *entity.Artifact, opts port.PutOptions) error {
	log := logging.FromContext(ctx)

	if err := validateKey(key); err != nil {
		return err
	}
	if artifact == nil {
		return fmt.Errorf("put %s: nil artifact", key)
	}

	s.maintenance.RLock()
	defer s.maintenance.RUnlock()

	enc, err := encodeArtifact(artifact, opts.Compress)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to encode artifact")
		return err
	}

	path := s.artifactPath(key, opts.Compress)
	// Bytes already at path are restored if registration fails.
	backup, readErr := os.ReadFile(path)
	existed := readErr == nil

	previous, err := s.entries.Get(ctx, key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache index lookup failed")
		return fmt.Errorf("%w: put %s: %w", entity.ErrStoreUnreachable, key, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		log.Error().Err(err).Str("path", path).Msg("failed to create artifact directory")
		return fmt.Errorf("%w: put %s: %w", entity.ErrTransientIO, key, err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(enc.data)); err != nil {
		log.Error().Err(err).Str("path", path).Msg("failed to write artifact")
		return fmt.Errorf("%w: put %s: %w", entity.ErrTransientIO, key, err)
	}

	now := s.now()
	entry := &entity.CacheEntry{
		Key:            key,
		FilePath:       path,
		Size:           int64(len(enc.data)),
		CreatedAt:      now,
		LastAccessedAt: now,
		Backend:        opts.Backend,
		ImageHash:      opts.ImageHash,
		Compressed:     opts.Compress,
	}
	if err := s.entries.Upsert(ctx, entry); err != nil {
		s.restoreFile(ctx, path, backup, existed)
		log.Error().Err(err).Str("key", key).Msg("failed to register artifact")
		return fmt.Errorf("%w: register %s: %w", entity.ErrStoreUnreachable, key, err)
	}

	if previous != nil && previous.FilePath != path {
		removeFile(ctx, previous.FilePath)
	}

	if opts.Compress {
		s.statsMu.Lock()
		s.stats.CompressionSaved += enc.compressionSaved()
		s.statsMu.Unlock()
	}

	log.Debug().
		Str("key", key).
		Str("backend", opts.Backend).
		Int64("size", entry.Size).
		Bool("compressed", opts.Compress).
		Msg("artifact cached")
	return nil
}

func (s *Store) restoreFile(ctx context.Context, path string, backup []byte, existed bool) {
	if !existed {
		_ = os.Remove(path)
		return
	}
	if err := atomic.WriteFile(path, bytes.NewReader(backup)); err != nil {
		logging.FromContext(ctx).Error().Err(err).Str("path", path).Msg("failed to restore previous artifact")
	}
}

// Remove deletes the entry and its bytes. Removing a missing key succeeds.
func (s *Store) Remove(ctx context.Context, key string) error {
	s.maintenance.RLock()
	defer s.maintenance.RUnlock()

	entry, err := s.entries.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("%w: remove %s: %w", entity.ErrStoreUnreachable, key, err)
	}
	if entry == nil {
		return nil
	}
	return s.removeEntry(ctx, entry)
}

// Analytics recomputes the statistics from the index. When the index cannot
// be queried the last known statistics are returned.
func (s *Store) Analytics(ctx context.Context) entity.CacheStats {
	log := logging.FromContext(ctx)

	totals, err := s.entries.Totals(ctx)
	if err == nil {
		var top []entity.KeyCount
		top, err = s.entries.MostAccessed(ctx, MostAccessedLimit)
		if err == nil {
			var usage map[string]int64
			usage, err = s.entries.BackendUsage(ctx)
			if err == nil {
				s.statsMu.Lock()
				s.stats.TotalEntries = totals.Entries
				s.stats.TotalSize = totals.Size
				s.stats.MostAccessed = top
				s.stats.BackendUsage = usage
				s.statsMu.Unlock()
			}
		}
	}
	if err != nil {
		log.Warn().Err(err).Msg("cache analytics unavailable, returning last known stats")
	}

	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	return s.stats.Clone()
}

// Clear deletes every entry, every snapshot and every artifact file, and
// resets the in-memory counters.
func (s *Store) Clear(ctx context.Context) error {
	log := logging.FromContext(ctx)

	s.maintenance.Lock()
	defer s.maintenance.Unlock()

	if err := s.entries.DeleteAll(ctx); err != nil {
		return fmt.Errorf("%w: clear index: %w", entity.ErrStoreUnreachable, err)
	}
	if err := os.RemoveAll(s.schemes); err != nil {
		return fmt.Errorf("%w: clear %s: %w", entity.ErrTransientIO, s.schemes, err)
	}
	if err := os.MkdirAll(s.schemes, dirPerm); err != nil {
		return fmt.Errorf("%w: recreate %s: %w", entity.ErrTransientIO, s.schemes, err)
	}

	s.statsMu.Lock()
	s.stats = entity.CacheStats{BackendUsage: map[string]int64{}}
	s.statsMu.Unlock()

	log.Info().Str("dir", s.root).Msg("cache cleared")
	return nil
}

// Snapshots returns up to limit recorded statistics snapshots, newest first.
func (s *Store) Snapshots(ctx context.Context, limit int) ([]*entity.StatsSnapshot, error) {
	snaps, err := s.snapshots.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: snapshots: %w", entity.ErrStoreUnreachable, err)
	}
	return snaps, nil
}

// Close records a final statistics snapshot. The index connection belongs
// to the caller.
func (s *Store) Close(ctx context.Context) error {
	return s.recordSnapshot(ctx)
}

func (s *Store) recordSnapshot(ctx context.Context) error {
	totals, err := s.entries.Totals(ctx)
	if err != nil {
		return fmt.Errorf("%w: snapshot totals: %w", entity.ErrStoreUnreachable, err)
	}

	s.statsMu.Lock()
	snap := &entity.StatsSnapshot{
		Timestamp:    s.now(),
		HitCount:     s.stats.HitCount,
		MissCount:    s.stats.MissCount,
		TotalEntries: totals.Entries,
		TotalSize:    totals.Size,
	}
	s.statsMu.Unlock()

	if err := s.snapshots.Save(ctx, snap); err != nil {
		return fmt.Errorf("%w: save snapshot: %w", entity.ErrStoreUnreachable, err)
	}
	return nil
}

// removeEntry deletes the row, then the bytes. A leftover file is only logged.
func (s *Store) removeEntry(ctx context.Context, entry *entity.CacheEntry) error {
	if err := s.entries.Delete(ctx, entry.Key); err != nil {
		return fmt.Errorf("%w: remove %s: %w", entity.ErrStoreUnreachable, entry.Key, err)
	}
	removeFile(ctx, entry.FilePath)
	return nil
}

func (s *Store) purge(ctx context.Context, entry *entity.CacheEntry) {
	if err := s.removeEntry(ctx, entry); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Str("key", entry.Key).Msg("failed to purge stale cache entry")
	}
}

func (s *Store) recordHit(elapsed time.Duration) {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	s.stats.HitCount++
	s.stats.AvgAccessTime += (elapsed - s.stats.AvgAccessTime) / 2
}

func (s *Store) recordMiss() {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	s.stats.MissCount++
}

func (s *Store) artifactPath(key string, compressed bool) string {
	name := key + ".json"
	if compressed {
		name += ".gz"
	}
	return filepath.Join(s.schemes, key[:2], name)
}

func readArtifact(entry *entity.CacheEntry) (*entity.Artifact, error) {
	data, err := os.ReadFile(entry.FilePath)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", entity.ErrTransientIO, entry.FilePath, err)
	}
	return decodeArtifact(data, entry.Compressed)
}

func removeFile(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logging.FromContext(ctx).Warn().Err(err).Str("path", path).Msg("failed to remove artifact file")
	}
}

// validateKey keeps keys inside the schemes directory.
func validateKey(key string) error {
	if len(key) < 2 || strings.ContainsAny(key, `/\.`) {
		return fmt.Errorf("invalid cache key %q", key)
	}
	return nil
}
