package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/bnema/walcache/internal/domain/entity"
)

// EvictionEntryCeiling forces a cleanup pass once the cache holds this many
// entries, even when it is under the size limit.
const EvictionEntryCeiling = 1000

// CleanupPolicy bounds the cache.
type CleanupPolicy struct {
	MaxSizeBytes int64
	// MaxAge of zero means entries never expire by age.
	MaxAge           time.Duration
	KeepMostAccessed int
}

// Validate rejects negative limits.
func (p CleanupPolicy) Validate() error {
	if p.MaxSizeBytes < 0 {
		return fmt.Errorf("%w: max size %d is negative", entity.ErrInvalidPolicy, p.MaxSizeBytes)
	}
	if p.MaxAge < 0 {
		return fmt.Errorf("%w: max age %s is negative", entity.ErrInvalidPolicy, p.MaxAge)
	}
	if p.KeepMostAccessed < 0 {
		return fmt.Errorf("%w: keep most accessed %d is negative", entity.ErrInvalidPolicy, p.KeepMostAccessed)
	}
	return nil
}

// EvictionReason says why an entry was selected.
type EvictionReason string

const (
	EvictionReasonAge  EvictionReason = "age"
	EvictionReasonSize EvictionReason = "size"
)

// EvictionVictim is one entry the plan removes.
type EvictionVictim struct {
	Entry  *entity.CacheEntry
	Reason EvictionReason
}

// EvictionResult describes one cleanup pass.
type EvictionResult struct {
	Skipped         bool
	TotalSizeBefore int64
	BytesFreed      int64
	Protected       []*entity.CacheEntry
	Removed         []EvictionVictim
}

// RemoveFunc removes one entry and reports whether it succeeded.
type RemoveFunc func(entry *entity.CacheEntry, reason EvictionReason) bool

// NeedsCleanup reports whether a pass should run for the given totals.
func NeedsCleanup(totals entity.CacheTotals, policy CleanupPolicy) bool {
	return totals.Size > policy.MaxSizeBytes || totals.Entries >= EvictionEntryCeiling
}

// PlanEviction reports what RunEviction would remove without removing anything.
func PlanEviction(entries []*entity.CacheEntry, policy CleanupPolicy, now time.Time) (EvictionResult, error) {
	return RunEviction(entries, policy, now, func(*entity.CacheEntry, EvictionReason) bool { return true })
}

// RunEviction walks the cache once and calls remove for every entry it evicts.
//
// The KeepMostAccessed entries ranked by (access count desc, last access desc)
// are protected and never evaluated. The rest are walked oldest and least
// used first; an entry is removed when it is older than a non-zero MaxAge, or while the
// size before cleanup minus the bytes freed so far is still above
// MaxSizeBytes. Only successful removals count towards the bytes freed.
func RunEviction(entries []*entity.CacheEntry, policy CleanupPolicy, now time.Time, remove RemoveFunc) (EvictionResult, error) {
	if err := policy.Validate(); err != nil {
		return EvictionResult{}, err
	}

	var totals entity.CacheTotals
	for _, e := range entries {
		totals.Entries++
		totals.Size += e.Size
	}
	res := EvictionResult{TotalSizeBefore: totals.Size}
	if !NeedsCleanup(totals, policy) {
		res.Skipped = true
		return res, nil
	}

	ranked := make([]*entity.CacheEntry, len(entries))
	copy(ranked, entries)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.AccessCount != b.AccessCount {
			return a.AccessCount > b.AccessCount
		}
		return a.LastAccessedAt.After(b.LastAccessedAt)
	})

	keep := min(policy.KeepMostAccessed, len(ranked))
	res.Protected = ranked[:keep]
	candidates := append([]*entity.CacheEntry(nil), ranked[keep:]...)

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if !a.LastAccessedAt.Equal(b.LastAccessedAt) {
			return a.LastAccessedAt.Before(b.LastAccessedAt)
		}
		return a.AccessCount < b.AccessCount
	})

	for _, e := range candidates {
		var reason EvictionReason
		switch {
		case policy.MaxAge > 0 && now.Sub(e.LastAccessedAt) > policy.MaxAge:
			reason = EvictionReasonAge
		case res.TotalSizeBefore-res.BytesFreed > policy.MaxSizeBytes:
			reason = EvictionReasonSize
		default:
			continue
		}
		if !remove(e, reason) {
			continue
		}
		res.Removed = append(res.Removed, EvictionVictim{Entry: e, Reason: reason})
		res.BytesFreed += e.Size
	}

	return res, nil
}
