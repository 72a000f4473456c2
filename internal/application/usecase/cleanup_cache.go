package usecase

import (
	"context"
	"time"

	"github.com/bnema/walcache/internal/application/port"
	"github.com/bnema/walcache/internal/domain/service"
	"github.com/bnema/walcache/internal/logging"
)

const bytesPerMB = 1024 * 1024

// CleanupCacheUseCase bounds the artifact cache and drops duplicate entries.
type CleanupCacheUseCase struct {
	maintainer port.CacheMaintainer
}

// NewCleanupCacheUseCase creates a new CleanupCacheUseCase.
func NewCleanupCacheUseCase(maintainer port.CacheMaintainer) *CleanupCacheUseCase {
	return &CleanupCacheUseCase{maintainer: maintainer}
}

// CleanupCacheInput contains the cleanup configuration.
type CleanupCacheInput struct {
	// MaxSizeMB is the size the cache is shrunk to.
	MaxSizeMB int64

	// MaxAgeDays removes entries not accessed for this many days.
	// A value of 0 disables age-based cleanup.
	MaxAgeDays int

	// KeepMostAccessed entries are never evicted.
	KeepMostAccessed int

	// Deduplicate runs a deduplication pass after eviction.
	Deduplicate bool

	// DryRun reports what eviction would remove. Deduplication is skipped.
	DryRun bool
}

// CleanupCacheOutput contains the cleanup results.
type CleanupCacheOutput struct {
	DryRun        bool
	Skipped       bool
	RemovedByAge  int
	RemovedBySize int
	Deduplicated  int
	BytesFreed    int64
	SizeBefore    int64
}

// TotalRemoved is the number of entries removed by every pass.
func (o CleanupCacheOutput) TotalRemoved() int {
	return o.RemovedByAge + o.RemovedBySize + o.Deduplicated
}

// Policy converts the input into an eviction policy.
func (in CleanupCacheInput) Policy() service.CleanupPolicy {
	return service.CleanupPolicy{
		MaxSizeBytes:     in.MaxSizeMB * bytesPerMB,
		MaxAge:           time.Duration(in.MaxAgeDays) * 24 * time.Hour,
		KeepMostAccessed: in.KeepMostAccessed,
	}
}

// Execute runs eviction and then, when asked, deduplication. An invalid
// policy is returned as an error; a failed deduplication pass is logged.
// A dry run only plans the eviction.
func (uc *CleanupCacheUseCase) Execute(ctx context.Context, input CleanupCacheInput) (CleanupCacheOutput, error) {
	log := logging.FromContext(ctx)
	output := CleanupCacheOutput{}

	cleanup := uc.maintainer.Cleanup
	if input.DryRun {
		cleanup = uc.maintainer.PlanCleanup
		output.DryRun = true
	}
	result, err := cleanup(ctx, input.Policy())
	if err != nil {
		return output, err
	}
	output.Skipped = result.Skipped
	output.SizeBefore = result.TotalSizeBefore
	output.BytesFreed = result.BytesFreed
	for _, victim := range result.Removed {
		switch victim.Reason {
		case service.EvictionReasonAge:
			output.RemovedByAge++
		case service.EvictionReasonSize:
			output.RemovedBySize++
		}
	}

	if input.DryRun {
		return output, nil
	}

	if input.Deduplicate {
		removed, err := uc.maintainer.Deduplicate(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("failed to deduplicate cache")
		} else {
			output.Deduplicated = removed
		}
	}

	if output.TotalRemoved() > 0 {
		log.Info().
			Int("total_removed", output.TotalRemoved()).
			Int("by_age", output.RemovedByAge).
			Int("by_size", output.RemovedBySize).
			Int("duplicates", output.Deduplicated).
			Int64("bytes_freed", output.BytesFreed).
			Msg("cache cleanup completed")
	}

	return output, nil
}
