package artifactstore_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bnema/walcache/internal/application/port"
	"github.com/bnema/walcache/internal/domain/entity"
	"github.com/bnema/walcache/internal/domain/repository"
	"github.com/bnema/walcache/internal/domain/service"
	"github.com/bnema/walcache/internal/infrastructure/artifactstore"
	"github.com/bnema/walcache/internal/infrastructure/persistence/sqlite"
	"github.com/bnema/walcache/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCtx() context.Context {
	return logging.WithContext(context.Background(), logging.NewFromConfigValues("debug", "console"))
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type fixture struct {
	ctx   context.Context
	dir   string
	repos sqlite.Repositories
	clock *clock
	store *artifactstore.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := testCtx()
	dir := t.TempDir()

	db, err := sqlite.NewConnection(ctx, filepath.Join(dir, "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close(db) })

	repos := sqlite.NewRepositories(db)
	c := &clock{now: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
	store, err := artifactstore.New(dir, repos.Entries, repos.Snapshots,
		artifactstore.WithClock(c.Now),
		artifactstore.WithToolVersion("1.2.3"),
	)
	require.NoError(t, err)

	return &fixture{ctx: ctx, dir: dir, repos: repos, clock: c, store: store}
}

func sampleArtifact() *entity.Artifact {
	a := &entity.Artifact{
		Wallpaper: "/walls/sunset.png",
		Alpha:     "100",
		Special:   entity.SpecialColors{Background: "#101010", Foreground: "#f0f0f0", Cursor: "#f0f0f0"},
	}
	for i := range a.Colors {
		a.Colors[i] = fmt.Sprintf("#%02x%02x%02x", i*10, i*5, 255-i*10)
	}
	return a
}

func TestStore_RoundTrip(t *testing.T) {
	for _, compress := range []bool{false, true} {
		t.Run(fmt.Sprintf("compress=%v", compress), func(t *testing.T) {
			f := newFixture(t)
			want := sampleArtifact()

			require.NoError(t, f.store.Put(f.ctx, "ab0123456789cdef", want, port.PutOptions{
				Backend:   "wal",
				ImageHash: "0011223344556677",
				Compress:  compress,
			}))

			got, ok := f.store.Get(f.ctx, "ab0123456789cdef")
			require.True(t, ok)
			assert.Equal(t, want, got)

			entry, err := f.repos.Entries.Get(f.ctx, "ab0123456789cdef")
			require.NoError(t, err)
			require.NotNil(t, entry)
			assert.Equal(t, compress, entry.Compressed)
			assert.Equal(t, int64(1), entry.AccessCount)
			assert.Equal(t, filepath.Join(f.dir, "schemes", "ab"), filepath.Dir(entry.FilePath))
			assert.Equal(t, compress, strings.HasSuffix(entry.FilePath, ".json.gz"))

			stats := f.store.Analytics(f.ctx)
			assert.Equal(t, int64(1), stats.HitCount)
			if compress {
				assert.Positive(t, stats.CompressionSaved)
			} else {
				assert.Zero(t, stats.CompressionSaved)
			}
		})
	}
}

func TestStore_PartialDocument(t *testing.T) {
	f := newFixture(t)

	var doc entity.Artifact
	require.NoError(t, json.Unmarshal([]byte(`{"colors":{"color0":"#000000"}}`), &doc))
	require.NoError(t, f.store.Put(f.ctx, "k1", &doc, port.PutOptions{}))

	got, ok := f.store.Get(f.ctx, "k1")
	require.True(t, ok)
	assert.Equal(t, "#000000", got.Colors[0])
}

func TestStore_MissForUnknownKey(t *testing.T) {
	f := newFixture(t)

	got, ok := f.store.Get(f.ctx, "ffffffffffffffff")
	assert.False(t, ok)
	assert.Nil(t, got)

	stats := f.store.Analytics(f.ctx)
	assert.Equal(t, int64(1), stats.MissCount)
	assert.Zero(t, stats.HitCount)
}

func TestStore_SelfHealsMissingFile(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.Put(f.ctx, "cd00000000000000", sampleArtifact(), port.PutOptions{Compress: true}))

	entry, err := f.repos.Entries.Get(f.ctx, "cd00000000000000")
	require.NoError(t, err)
	require.NoError(t, os.Remove(entry.FilePath))

	_, ok := f.store.Get(f.ctx, "cd00000000000000")
	assert.False(t, ok)

	entry, err = f.repos.Entries.Get(f.ctx, "cd00000000000000")
	require.NoError(t, err)
	assert.Nil(t, entry, "stale row is deleted")
}

func TestStore_CorruptFileIsPurged(t *testing.T) {
	for _, compress := range []bool{false, true} {
		t.Run(fmt.Sprintf("compress=%v", compress), func(t *testing.T) {
			f := newFixture(t)
			require.NoError(t, f.store.Put(f.ctx, "ee00000000000000", sampleArtifact(), port.PutOptions{Compress: compress}))

			entry, err := f.repos.Entries.Get(f.ctx, "ee00000000000000")
			require.NoError(t, err)
			require.NoError(t, os.WriteFile(entry.FilePath, []byte("{not json"), 0o600))

			_, ok := f.store.Get(f.ctx, "ee00000000000000")
			assert.False(t, ok)

			_, statErr := os.Stat(entry.FilePath)
			assert.True(t, errors.Is(statErr, os.ErrNotExist))

			entry, err = f.repos.Entries.Get(f.ctx, "ee00000000000000")
			require.NoError(t, err)
			assert.Nil(t, entry)
		})
	}
}

func TestStore_RecompressReplacesFile(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.Put(f.ctx, "aa11111111111111", sampleArtifact(), port.PutOptions{}))
	first, err := f.repos.Entries.Get(f.ctx, "aa11111111111111")
	require.NoError(t, err)

	require.NoError(t, f.store.Put(f.ctx, "aa11111111111111", sampleArtifact(), port.PutOptions{Compress: true}))

	_, statErr := os.Stat(first.FilePath)
	assert.True(t, errors.Is(statErr, os.ErrNotExist), "the uncompressed copy is gone")

	got, ok := f.store.Get(f.ctx, "aa11111111111111")
	require.True(t, ok)
	assert.Equal(t, sampleArtifact(), got)
}

func TestStore_PutRejectsBadInput(t *testing.T) {
	f := newFixture(t)

	assert.Error(t, f.store.Put(f.ctx, "../escape", sampleArtifact(), port.PutOptions{}))
	assert.Error(t, f.store.Put(f.ctx, "x", sampleArtifact(), port.PutOptions{}))
	assert.Error(t, f.store.Put(f.ctx, "abcdef", nil, port.PutOptions{}))
}

type failingUpsert struct {
	repository.CacheEntryRepository
}

func (failingUpsert) Upsert(context.Context, *entity.CacheEntry) error {
	return errors.New("disk I/O error")
}

func TestStore_PutRegistrationFailureLeavesNoFile(t *testing.T) {
	f := newFixture(t)
	store, err := artifactstore.New(f.dir, failingUpsert{f.repos.Entries}, f.repos.Snapshots)
	require.NoError(t, err)

	err = store.Put(f.ctx, "bb00000000000000", sampleArtifact(), port.PutOptions{})
	require.ErrorIs(t, err, entity.ErrStoreUnreachable)

	_, statErr := os.Stat(filepath.Join(f.dir, "schemes", "bb", "bb00000000000000.json"))
	assert.True(t, errors.Is(statErr, os.ErrNotExist))
}

func TestStore_PutRegistrationFailureKeepsPreviousArtifact(t *testing.T) {
	f := newFixture(t)
	const key = "bc00000000000000"
	require.NoError(t, f.store.Put(f.ctx, key, sampleArtifact(), port.PutOptions{Backend: "wal"}))

	failing, err := artifactstore.New(f.dir, failingUpsert{f.repos.Entries}, f.repos.Snapshots)
	require.NoError(t, err)
	replacement := sampleArtifact()
	replacement.Wallpaper = "/walls/a-much-longer-replacement-wallpaper-path.png"
	err = failing.Put(f.ctx, key, replacement, port.PutOptions{Backend: "wal"})
	require.ErrorIs(t, err, entity.ErrStoreUnreachable)

	got, ok := f.store.Get(f.ctx, key)
	require.True(t, ok)
	assert.Equal(t, "/walls/sunset.png", got.Wallpaper)

	entry, err := f.repos.Entries.Get(f.ctx, key)
	require.NoError(t, err)
	info, err := os.Stat(entry.FilePath)
	require.NoError(t, err)
	assert.Equal(t, entry.Size, info.Size())
}

func TestStore_RemoveIsIdempotent(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.Put(f.ctx, "ac00000000000000", sampleArtifact(), port.PutOptions{}))

	require.NoError(t, f.store.Remove(f.ctx, "ac00000000000000"))
	require.NoError(t, f.store.Remove(f.ctx, "ac00000000000000"))

	_, ok := f.store.Get(f.ctx, "ac00000000000000")
	assert.False(t, ok)
}

func TestStore_CleanupByAge(t *testing.T) {
	f := newFixture(t)
	start := f.clock.Now()

	f.clock.Set(start.Add(-48 * time.Hour))
	require.NoError(t, f.store.Put(f.ctx, "01d0000000000000", sampleArtifact(), port.PutOptions{}))
	f.clock.Set(start.Add(-time.Hour))
	require.NoError(t, f.store.Put(f.ctx, "02h0000000000000", sampleArtifact(), port.PutOptions{}))
	f.clock.Set(start)

	totals, err := f.repos.Entries.Totals(f.ctx)
	require.NoError(t, err)

	// Size limit just under the total so the pass runs; age does the rest.
	res, err := f.store.Cleanup(f.ctx, service.CleanupPolicy{
		MaxSizeBytes: totals.Size - 1,
		MaxAge:       24 * time.Hour,
	})
	require.NoError(t, err)
	require.Len(t, res.Removed, 1)
	assert.Equal(t, "01d0000000000000", res.Removed[0].Entry.Key)

	_, ok := f.store.Get(f.ctx, "02h0000000000000")
	assert.True(t, ok)
	_, ok = f.store.Get(f.ctx, "01d0000000000000")
	assert.False(t, ok)

	stats := f.store.Analytics(f.ctx)
	assert.Equal(t, int64(1), stats.CleanupCount)

	snaps, err := f.store.Snapshots(f.ctx, 10)
	require.NoError(t, err)
	assert.Len(t, snaps, 1)
}

func TestStore_PlanCleanupRemovesNothing(t *testing.T) {
	f := newFixture(t)
	start := f.clock.Now()

	f.clock.Set(start.Add(-48 * time.Hour))
	require.NoError(t, f.store.Put(f.ctx, "01d0000000000000", sampleArtifact(), port.PutOptions{}))
	f.clock.Set(start)

	totals, err := f.repos.Entries.Totals(f.ctx)
	require.NoError(t, err)

	res, err := f.store.PlanCleanup(f.ctx, service.CleanupPolicy{
		MaxSizeBytes: totals.Size - 1,
		MaxAge:       24 * time.Hour,
	})
	require.NoError(t, err)
	require.Len(t, res.Removed, 1)
	assert.Equal(t, service.EvictionReasonAge, res.Removed[0].Reason)

	_, ok := f.store.Get(f.ctx, "01d0000000000000")
	assert.True(t, ok)
	assert.Zero(t, f.store.Analytics(f.ctx).CleanupCount)
}

func TestStore_CleanupSizeBoundKeepsMostAccessed(t *testing.T) {
	f := newFixture(t)
	start := f.clock.Now()

	keys := []string{"a000000000000000", "b000000000000000", "c000000000000000", "d000000000000000"}
	for i, key := range keys {
		f.clock.Set(start.Add(time.Duration(i) * time.Minute))
		require.NoError(t, f.store.Put(f.ctx, key, sampleArtifact(), port.PutOptions{}))
	}
	// The oldest entry is also the most used.
	for range 3 {
		_, ok := f.store.Get(f.ctx, keys[0])
		require.True(t, ok)
	}
	f.clock.Set(start.Add(time.Hour))

	entry, err := f.repos.Entries.Get(f.ctx, keys[1])
	require.NoError(t, err)
	limit := 2 * entry.Size

	res, err := f.store.Cleanup(f.ctx, service.CleanupPolicy{
		MaxSizeBytes:     limit,
		MaxAge:           30 * 24 * time.Hour,
		KeepMostAccessed: 1,
	})
	require.NoError(t, err)
	assert.False(t, res.Skipped)

	_, ok := f.store.Get(f.ctx, keys[0])
	assert.True(t, ok, "protected entry survives")

	totals, err := f.repos.Entries.Totals(f.ctx)
	require.NoError(t, err)
	assert.LessOrEqual(t, totals.Size, limit)
}

func TestStore_CleanupRejectsNegativePolicy(t *testing.T) {
	f := newFixture(t)
	_, err := f.store.Cleanup(f.ctx, service.CleanupPolicy{MaxSizeBytes: -1})
	require.ErrorIs(t, err, entity.ErrInvalidPolicy)
}

func TestStore_Deduplicate(t *testing.T) {
	f := newFixture(t)
	start := f.clock.Now()

	put := func(key, hash string, at time.Time) {
		f.clock.Set(at)
		require.NoError(t, f.store.Put(f.ctx, key, sampleArtifact(), port.PutOptions{ImageHash: hash}))
	}
	put("a100000000000000", "samehash", start)
	put("a200000000000000", "samehash", start.Add(time.Minute))
	put("a300000000000000", "samehash", start.Add(2*time.Minute))
	put("b100000000000000", "", start)
	put("b200000000000000", "", start)
	put("c100000000000000", "otherhash", start)

	f.clock.Set(start.Add(3 * time.Minute))
	_, ok := f.store.Get(f.ctx, "a100000000000000")
	require.True(t, ok)

	removed, err := f.store.Deduplicate(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	_, ok = f.store.Get(f.ctx, "a100000000000000")
	assert.True(t, ok, "most recently accessed copy is kept")
	for _, key := range []string{"b100000000000000", "b200000000000000", "c100000000000000"} {
		_, ok = f.store.Get(f.ctx, key)
		assert.True(t, ok, key)
	}
	for _, key := range []string{"a200000000000000", "a300000000000000"} {
		_, ok = f.store.Get(f.ctx, key)
		assert.False(t, ok, key)
	}
}

func TestStore_Clear(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.Put(f.ctx, "ab00000000000000", sampleArtifact(), port.PutOptions{}))
	_, _ = f.store.Get(f.ctx, "ab00000000000000")
	require.NoError(t, f.store.Close(f.ctx))

	require.NoError(t, f.store.Clear(f.ctx))

	stats := f.store.Analytics(f.ctx)
	assert.Zero(t, stats.TotalEntries)
	assert.Zero(t, stats.HitCount)

	snaps, err := f.store.Snapshots(f.ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, snaps)

	left, err := os.ReadDir(filepath.Join(f.dir, "schemes"))
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestStore_Analytics(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.Put(f.ctx, "aa00000000000000", sampleArtifact(), port.PutOptions{Backend: "wal"}))
	require.NoError(t, f.store.Put(f.ctx, "bb00000000000000", sampleArtifact(), port.PutOptions{Backend: "wal"}))
	require.NoError(t, f.store.Put(f.ctx, "cc00000000000000", sampleArtifact(), port.PutOptions{Backend: "imagemagick"}))

	_, _ = f.store.Get(f.ctx, "bb00000000000000")
	_, _ = f.store.Get(f.ctx, "bb00000000000000")
	_, _ = f.store.Get(f.ctx, "missing0000000000")

	stats := f.store.Analytics(f.ctx)
	assert.Equal(t, int64(3), stats.TotalEntries)
	assert.Equal(t, map[string]int64{"wal": 2, "imagemagick": 1}, stats.BackendUsage)
	require.NotEmpty(t, stats.MostAccessed)
	assert.Equal(t, entity.KeyCount{Key: "bb00000000000000", Count: 2}, stats.MostAccessed[0])
	assert.InDelta(t, 2.0/3.0, stats.HitRate(), 1e-9)
}

func TestStore_ExportInfo(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.Put(f.ctx, "aa00000000000000", sampleArtifact(), port.PutOptions{Backend: "wal", Compress: true}))
	_, _ = f.store.Get(f.ctx, "aa00000000000000")

	path := filepath.Join(f.dir, "reports", "cache.json")
	require.NoError(t, f.store.ExportInfo(f.ctx, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "1.2.3", doc["version"])
	assert.Equal(t, entity.CacheFormatVersion, doc["cache_version"])
	for _, field := range []string{"timestamp", "stats", "backend_usage", "most_accessed"} {
		assert.Contains(t, doc, field)
	}
	stats := doc["stats"].(map[string]any)
	assert.EqualValues(t, 1, stats["total_entries"])
	assert.EqualValues(t, 1, stats["hit_rate"])
}

func TestStore_ConcurrentAccessDuringMaintenance(t *testing.T) {
	f := newFixture(t)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := fmt.Sprintf("f%015d", i)
			assert.NoError(t, f.store.Put(f.ctx, key, sampleArtifact(), port.PutOptions{ImageHash: "h"}))
			f.store.Get(f.ctx, key)
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := f.store.Deduplicate(f.ctx)
		assert.NoError(t, err)
	}()
	wg.Wait()

	_, err := f.store.Deduplicate(f.ctx)
	require.NoError(t, err)
	totals, err := f.repos.Entries.Totals(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), totals.Entries)
}

func TestPassthrough(t *testing.T) {
	var p artifactstore.Passthrough

	_, ok := p.Get(testCtx(), "anything")
	assert.False(t, ok)
	assert.ErrorIs(t, p.Put(testCtx(), "anything", sampleArtifact(), port.PutOptions{}), entity.ErrStoreUnreachable)
}

func TestNewReport_EmptyStatsFromPassthrough(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	report := artifactstore.NewReport("", at, artifactstore.Passthrough{}.Analytics(testCtx()))

	assert.Equal(t, "dev", report.Version)
	assert.Equal(t, entity.CacheFormatVersion, report.CacheVersion)
	assert.True(t, report.Timestamp.Equal(at))
	assert.Zero(t, report.Stats.TotalEntries)
	assert.Zero(t, report.Stats.HitRate)
	assert.NotNil(t, report.BackendUsage)
	assert.NotNil(t, report.MostAccessed)
}
