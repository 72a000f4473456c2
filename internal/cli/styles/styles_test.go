package styles

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bnema/walcache/internal/application/usecase"
	"github.com/bnema/walcache/internal/domain/entity"
)

func TestHumanBytes(t *testing.T) {
	assert.Equal(t, "512 B", HumanBytes(512))
	assert.Equal(t, "1.0 KiB", HumanBytes(1024))
	assert.Equal(t, "1.5 MiB", HumanBytes(1536*1024))
	assert.Equal(t, "100.0 MiB", HumanBytes(100*1024*1024))
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "just now", RelativeTime(now.Add(-10*time.Second), now))
	assert.Equal(t, "5m ago", RelativeTime(now.Add(-5*time.Minute), now))
	assert.Equal(t, "3h ago", RelativeTime(now.Add(-3*time.Hour), now))
	assert.Equal(t, "2d ago", RelativeTime(now.Add(-48*time.Hour), now))
	assert.Equal(t, "2w ago", RelativeTime(now.Add(-15*24*time.Hour), now))
	assert.Equal(t, "1y ago", RelativeTime(now.Add(-400*24*time.Hour), now))
}

func TestGroupBySection_KeepsFirstSeenOrder(t *testing.T) {
	order, sections := groupBySection([]entity.ConfigKeyInfo{
		{Key: "cache.dir", Section: "Cache"},
		{Key: "batch.workers", Section: "Batch"},
		{Key: "cache.compress", Section: "Cache"},
	})

	assert.Equal(t, []string{"Cache", "Batch"}, order)
	assert.Len(t, sections["Cache"], 2)
}

func TestBatchRenderer_RenderResultsMarksFailures(t *testing.T) {
	r := NewBatchRenderer(NewTheme())
	out := r.RenderResults(
		[]string{"/w/a.png", "/w/b.png"},
		map[string]entity.BatchResult{
			"/w/a.png": {Image: "/w/a.png", Backend: "wal", FromCache: true, Artifact: &entity.Artifact{
				Special: entity.SpecialColors{Background: "#101010"},
			}},
		},
	)

	assert.Contains(t, out, "a.png")
	assert.Contains(t, out, "cached")
	assert.Contains(t, out, "#101010")
	assert.Contains(t, out, "b.png")
	assert.Contains(t, out, "failed")
}

func TestBatchRenderer_RenderBenchmarkListsUnavailable(t *testing.T) {
	r := NewBatchRenderer(NewTheme())
	out := r.RenderBenchmark([]entity.BackendBenchmark{
		{Backend: "colorz", Available: false},
		{Backend: "wal", Available: true, AvgTime: 20 * time.Millisecond, SuccessRate: 1},
	})

	assert.Contains(t, out, "wal")
	assert.Contains(t, out, "100.0%")
	assert.Contains(t, out, "Unavailable:")
	assert.Contains(t, out, "colorz")
}

func TestBatchRenderer_RenderBestEmpty(t *testing.T) {
	out := NewBatchRenderer(NewTheme()).RenderBest(nil, 0)
	assert.Contains(t, out, "No image could be scored")
}

func TestCacheRenderer_RenderCleanup(t *testing.T) {
	r := NewCacheRenderer(NewTheme())

	skipped := r.RenderCleanup(usecase.CleanupCacheOutput{Skipped: true, SizeBefore: 2048})
	assert.Contains(t, skipped, "Nothing to evict")
	assert.Contains(t, skipped, "2.0 KiB")

	removed := r.RenderCleanup(usecase.CleanupCacheOutput{RemovedByAge: 2, RemovedBySize: 1, BytesFreed: 4096})
	assert.Contains(t, removed, "3")
	assert.Contains(t, removed, "4.0 KiB")
	assert.Contains(t, removed, "age 2, size 1, duplicates 0")
}

func TestCacheRenderer_RenderSnapshots(t *testing.T) {
	r := NewCacheRenderer(NewTheme())
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	assert.Contains(t, r.RenderSnapshots(nil), "No statistics")

	out := r.RenderSnapshots([]*entity.StatsSnapshot{
		{Timestamp: now.Add(-2 * time.Hour), HitCount: 3, MissCount: 1, TotalEntries: 7, TotalSize: 1024},
	})
	assert.Contains(t, out, "2h ago")
	assert.Contains(t, out, "75.0%")
}

func TestCacheRenderer_RenderUnavailable(t *testing.T) {
	out := NewCacheRenderer(NewTheme()).RenderUnavailable(errors.New("unable to open database file"))
	assert.Contains(t, out, "empty statistics")
	assert.Contains(t, out, "unable to open database file")
}

func TestCacheRenderer_RenderError(t *testing.T) {
	out := NewCacheRenderer(NewTheme()).RenderError(errors.New("index locked"))
	assert.Contains(t, out, "index locked")
}
