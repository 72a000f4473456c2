package service_test

import (
	"testing"
	"time"

	"github.com/bnema/walcache/internal/domain/entity"
	"github.com/bnema/walcache/internal/domain/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanDeduplication_KeepsMostRecentlyAccessed(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	entries := []*entity.CacheEntry{
		{Key: "a", ImageHash: "h1", LastAccessedAt: base.Add(1 * time.Hour)},
		{Key: "b", ImageHash: "h1", LastAccessedAt: base.Add(3 * time.Hour)},
		{Key: "c", ImageHash: "h1", LastAccessedAt: base.Add(2 * time.Hour)},
		{Key: "d", ImageHash: "h2", LastAccessedAt: base},
		{Key: "e", ImageHash: "", LastAccessedAt: base},
		{Key: "f", ImageHash: "", LastAccessedAt: base},
	}

	groups := service.PlanDeduplication(entries)
	require.Len(t, groups, 1)

	g := groups[0]
	assert.Equal(t, "h1", g.ImageHash)
	assert.Equal(t, "b", g.Keep.Key)
	require.Len(t, g.Remove, 2)
	assert.ElementsMatch(t, []string{"a", "c"}, []string{g.Remove[0].Key, g.Remove[1].Key})
}

func TestPlanDeduplication_TieKeepsSmallestKey(t *testing.T) {
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	groups := service.PlanDeduplication([]*entity.CacheEntry{
		{Key: "zz", ImageHash: "h", LastAccessedAt: at},
		{Key: "aa", ImageHash: "h", LastAccessedAt: at},
	})
	require.Len(t, groups, 1)
	assert.Equal(t, "aa", groups[0].Keep.Key)
}

func TestPlanDeduplication_NoDuplicates(t *testing.T) {
	assert.Empty(t, service.PlanDeduplication(nil))
	assert.Empty(t, service.PlanDeduplication([]*entity.CacheEntry{{Key: "a", ImageHash: "h"}}))
}
