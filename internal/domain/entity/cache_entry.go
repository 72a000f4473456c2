package entity

import "time"

// CacheFormatVersion is mixed into every fingerprint. Bumping it
// invalidates all existing keys.
const CacheFormatVersion = "1.1.0"

// CacheEntry is the index row describing one stored artifact.
type CacheEntry struct {
	Key            string
	FilePath       string
	Size           int64
	CreatedAt      time.Time
	LastAccessedAt time.Time
	AccessCount    int64
	Backend        string
	ImageHash      string
	Compressed     bool
}

// Touch records a cache hit on the entry.
func (e *CacheEntry) Touch(now time.Time) {
	e.LastAccessedAt = now
	e.AccessCount++
}

// KeyCount pairs a cache key with its access count.
type KeyCount struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// CacheTotals is the aggregate of the entry table.
type CacheTotals struct {
	Entries int64
	Size    int64
}

// CacheStats is the analytics view of the cache.
type CacheStats struct {
	TotalEntries     int64            `json:"total_entries"`
	TotalSize        int64            `json:"total_size"`
	HitCount         int64            `json:"hit_count"`
	MissCount        int64            `json:"miss_count"`
	CleanupCount     int64            `json:"cleanup_count"`
	CompressionSaved int64            `json:"compression_saved"`
	AvgAccessTime    time.Duration    `json:"avg_access_time"`
	MostAccessed     []KeyCount       `json:"most_accessed"`
	BackendUsage     map[string]int64 `json:"backend_usage"`
}

// HitRate returns hits / (hits + misses), or 0 with no lookups.
func (s CacheStats) HitRate() float64 {
	total := s.HitCount + s.MissCount
	if total == 0 {
		return 0
	}
	return float64(s.HitCount) / float64(total)
}

// Clone returns a deep copy so callers can't mutate shared maps.
func (s CacheStats) Clone() CacheStats {
	out := s
	out.MostAccessed = append([]KeyCount(nil), s.MostAccessed...)
	out.BackendUsage = make(map[string]int64, len(s.BackendUsage))
	for k, v := range s.BackendUsage {
		out.BackendUsage[k] = v
	}
	return out
}

// StatsSnapshot is a point-in-time copy of the counters kept in cache_stats.
type StatsSnapshot struct {
	ID           int64
	Timestamp    time.Time
	HitCount     int64
	MissCount    int64
	TotalEntries int64
	TotalSize    int64
}
