package artifactstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bnema/walcache/internal/domain/entity"
	"github.com/bnema/walcache/internal/logging"
	"github.com/natefinch/atomic"
)

const bytesPerMB = 1024 * 1024

// Report is the document written by ExportInfo.
type Report struct {
	Version      string            `json:"version"`
	CacheVersion string            `json:"cache_version"`
	Timestamp    time.Time         `json:"timestamp"`
	Stats        ReportStats       `json:"stats"`
	BackendUsage map[string]int64  `json:"backend_usage"`
	MostAccessed []entity.KeyCount `json:"most_accessed"`
}

// ReportStats summarizes CacheStats in human units.
type ReportStats struct {
	TotalEntries       int64   `json:"total_entries"`
	TotalSizeMB        float64 `json:"total_size_mb"`
	HitRate            float64 `json:"hit_rate"`
	AvgAccessTimeMS    float64 `json:"avg_access_time_ms"`
	CompressionSavedMB float64 `json:"compression_saved_mb"`
	CleanupCount       int64   `json:"cleanup_count"`
}

// BuildReport assembles the export document from the current statistics.
func (s *Store) BuildReport(ctx context.Context) Report {
	return NewReport(s.toolVersion, s.now(), s.Analytics(ctx))
}

// NewReport builds the export document for stats. An empty version reads "dev".
func NewReport(version string, at time.Time, stats entity.CacheStats) Report {
	if version == "" {
		version = "dev"
	}
	usage := stats.BackendUsage
	if usage == nil {
		usage = map[string]int64{}
	}
	top := stats.MostAccessed
	if top == nil {
		top = []entity.KeyCount{}
	}
	return Report{
		Version:      version,
		CacheVersion: entity.CacheFormatVersion,
		Timestamp:    at,
		Stats: ReportStats{
			TotalEntries:       stats.TotalEntries,
			TotalSizeMB:        float64(stats.TotalSize) / bytesPerMB,
			HitRate:            stats.HitRate(),
			AvgAccessTimeMS:    float64(stats.AvgAccessTime) / float64(time.Millisecond),
			CompressionSavedMB: float64(stats.CompressionSaved) / bytesPerMB,
			CleanupCount:       stats.CleanupCount,
		},
		BackendUsage: usage,
		MostAccessed: top,
	}
}

// ExportInfo writes the statistics report to path as indented JSON.
func (s *Store) ExportInfo(ctx context.Context, path string) error {
	report := s.BuildReport(ctx)

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cache report: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return fmt.Errorf("%w: export %s: %w", entity.ErrTransientIO, path, err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("%w: export %s: %w", entity.ErrTransientIO, path, err)
	}

	logging.FromContext(ctx).Info().Str("path", path).Msg("cache report exported")
	return nil
}
