package service_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/bnema/walcache/internal/domain/entity"
	"github.com/bnema/walcache/internal/domain/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var evictionNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func entryAt(key string, size int64, accessed time.Time, count int64) *entity.CacheEntry {
	return &entity.CacheEntry{
		Key:            key,
		Size:           size,
		CreatedAt:      accessed,
		LastAccessedAt: accessed,
		AccessCount:    count,
	}
}

func removedKeys(res service.EvictionResult) []string {
	keys := make([]string, 0, len(res.Removed))
	for _, v := range res.Removed {
		keys = append(keys, v.Entry.Key)
	}
	return keys
}

func TestCleanupPolicy_RejectsNegativeLimits(t *testing.T) {
	for _, p := range []service.CleanupPolicy{
		{MaxSizeBytes: -1},
		{MaxAge: -time.Second},
		{KeepMostAccessed: -1},
	} {
		_, err := service.PlanEviction(nil, p, evictionNow)
		require.ErrorIs(t, err, entity.ErrInvalidPolicy)
	}
}

func TestPlanEviction_SkipsWhenUnderLimits(t *testing.T) {
	entries := []*entity.CacheEntry{
		entryAt("a", 10, evictionNow.Add(-90*24*time.Hour), 0),
	}
	res, err := service.PlanEviction(entries, service.CleanupPolicy{MaxSizeBytes: 100, MaxAge: time.Hour}, evictionNow)
	require.NoError(t, err)

	assert.True(t, res.Skipped, "under size and under entry ceiling means no pass, even for stale entries")
	assert.Empty(t, res.Removed)
}

func TestPlanEviction_RunsAtEntryCeiling(t *testing.T) {
	entries := make([]*entity.CacheEntry, 0, service.EvictionEntryCeiling)
	for i := range service.EvictionEntryCeiling {
		entries = append(entries, entryAt(fmt.Sprintf("k%04d", i), 1, evictionNow.Add(-time.Minute), 0))
	}
	res, err := service.PlanEviction(entries, service.CleanupPolicy{MaxSizeBytes: 1 << 30, MaxAge: time.Hour}, evictionNow)
	require.NoError(t, err)

	assert.False(t, res.Skipped)
	assert.Empty(t, res.Removed, "nothing is old and the size is fine")
}

func TestPlanEviction_ZeroMaxAgeNeverEvictsByAge(t *testing.T) {
	entries := make([]*entity.CacheEntry, 0, service.EvictionEntryCeiling)
	for i := range service.EvictionEntryCeiling {
		entries = append(entries, entryAt(fmt.Sprintf("k%04d", i), 10, evictionNow.Add(-time.Minute), 0))
	}
	res, err := service.PlanEviction(entries, service.CleanupPolicy{MaxSizeBytes: 100 << 20, KeepMostAccessed: 50}, evictionNow)
	require.NoError(t, err)

	assert.False(t, res.Skipped)
	assert.Empty(t, res.Removed)
}

func TestPlanEviction_ZeroMaxAgeStillEnforcesSize(t *testing.T) {
	entries := []*entity.CacheEntry{
		entryAt("a", 100, evictionNow.Add(-300*24*time.Hour), 0),
		entryAt("b", 100, evictionNow.Add(-200*24*time.Hour), 0),
		entryAt("c", 100, evictionNow.Add(-100*24*time.Hour), 0),
	}
	res, err := service.PlanEviction(entries, service.CleanupPolicy{MaxSizeBytes: 150}, evictionNow)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, removedKeys(res))
	for _, v := range res.Removed {
		assert.Equal(t, service.EvictionReasonSize, v.Reason)
	}
}

func TestPlanEviction_AgeScenario(t *testing.T) {
	old := entryAt("old", 100, evictionNow.Add(-48*time.Hour), 0)
	recent := entryAt("recent", 100, evictionNow.Add(-time.Hour), 0)

	res, err := service.PlanEviction([]*entity.CacheEntry{recent, old}, service.CleanupPolicy{
		MaxSizeBytes: 150,
		MaxAge:       24 * time.Hour,
	}, evictionNow)
	require.NoError(t, err)

	assert.Equal(t, []string{"old"}, removedKeys(res))
	assert.Equal(t, service.EvictionReasonAge, res.Removed[0].Reason)
	assert.Equal(t, int64(100), res.BytesFreed)
}

func TestPlanEviction_SizeBoundKeepsProtected(t *testing.T) {
	var entries []*entity.CacheEntry
	for i := range 10 {
		entries = append(entries, entryAt(
			fmt.Sprintf("k%d", i),
			100,
			evictionNow.Add(-time.Duration(10-i)*time.Minute),
			int64(i),
		))
	}

	policy := service.CleanupPolicy{MaxSizeBytes: 450, MaxAge: 24 * time.Hour, KeepMostAccessed: 3}
	res, err := service.PlanEviction(entries, policy, evictionNow)
	require.NoError(t, err)

	removed := map[string]bool{}
	for _, k := range removedKeys(res) {
		removed[k] = true
	}
	for _, protected := range []string{"k9", "k8", "k7"} {
		assert.False(t, removed[protected], "%s is among the most accessed", protected)
	}
	assert.LessOrEqual(t, res.TotalSizeBefore-res.BytesFreed, policy.MaxSizeBytes)
	// Oldest, least used go first.
	assert.Equal(t, []string{"k0", "k1", "k2", "k3", "k4", "k5"}, removedKeys(res))
}

func TestPlanEviction_ProtectedMayExceedLimit(t *testing.T) {
	entries := []*entity.CacheEntry{
		entryAt("a", 1000, evictionNow.Add(-72*time.Hour), 5),
		entryAt("b", 1000, evictionNow.Add(-72*time.Hour), 4),
	}
	res, err := service.PlanEviction(entries, service.CleanupPolicy{MaxSizeBytes: 10, MaxAge: time.Hour, KeepMostAccessed: 5}, evictionNow)
	require.NoError(t, err)

	assert.False(t, res.Skipped)
	assert.Len(t, res.Protected, 2)
	assert.Empty(t, res.Removed)
}

func TestPlanEviction_ProtectionTieBreaksOnRecency(t *testing.T) {
	older := entryAt("older", 100, evictionNow.Add(-2*time.Hour), 3)
	newer := entryAt("newer", 100, evictionNow.Add(-time.Hour), 3)

	res, err := service.PlanEviction([]*entity.CacheEntry{older, newer}, service.CleanupPolicy{MaxSizeBytes: 50, MaxAge: 24 * time.Hour, KeepMostAccessed: 1}, evictionNow)
	require.NoError(t, err)

	require.Len(t, res.Protected, 1)
	assert.Equal(t, "newer", res.Protected[0].Key)
	assert.Equal(t, []string{"older"}, removedKeys(res))
}

func TestRunEviction_FailedRemovalDoesNotCountAsFreed(t *testing.T) {
	entries := []*entity.CacheEntry{
		entryAt("a", 100, evictionNow.Add(-3*time.Minute), 0),
		entryAt("b", 100, evictionNow.Add(-2*time.Minute), 0),
		entryAt("c", 100, evictionNow.Add(-1*time.Minute), 0),
	}
	policy := service.CleanupPolicy{MaxSizeBytes: 200, MaxAge: time.Hour}

	res, err := service.RunEviction(entries, policy, evictionNow, func(e *entity.CacheEntry, _ service.EvictionReason) bool {
		return e.Key != "a"
	})
	require.NoError(t, err)

	// "a" failed, so the pass keeps going until "b" has been freed.
	assert.Equal(t, []string{"b"}, removedKeys(res))
	assert.Equal(t, int64(100), res.BytesFreed)
}
