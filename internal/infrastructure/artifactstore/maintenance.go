package artifactstore

import (
	"context"
	"fmt"

	"github.com/bnema/walcache/internal/domain/entity"
	"github.com/bnema/walcache/internal/domain/service"
	"github.com/bnema/walcache/internal/logging"
)

// Cleanup evicts entries according to policy in a single pass. Protected
// entries are never touched. Negative limits fail with entity.ErrInvalidPolicy.
func (s *Store) Cleanup(ctx context.Context, policy service.CleanupPolicy) (service.EvictionResult, error) {
	if err := policy.Validate(); err != nil {
		return service.EvictionResult{}, err
	}
	log := logging.FromContext(ctx)

	s.maintenance.Lock()
	defer s.maintenance.Unlock()

	entries, err := s.entries.List(ctx)
	if err != nil {
		return service.EvictionResult{}, fmt.Errorf("%w: cleanup: %w", entity.ErrStoreUnreachable, err)
	}

	res, err := service.RunEviction(entries, policy, s.now(), func(e *entity.CacheEntry, reason service.EvictionReason) bool {
		if err := s.removeEntry(ctx, e); err != nil {
			log.Warn().Err(err).Str("key", e.Key).Msg("eviction failed")
			return false
		}
		log.Debug().Str("key", e.Key).Str("reason", string(reason)).Int64("size", e.Size).Msg("evicted cache entry")
		return true
	})
	if err != nil {
		return service.EvictionResult{}, err
	}
	if res.Skipped {
		log.Debug().Int64("total_size", res.TotalSizeBefore).Msg("cache within limits, cleanup skipped")
		return res, nil
	}

	s.statsMu.Lock()
	s.stats.CleanupCount += int64(len(res.Removed))
	s.statsMu.Unlock()

	if err := s.recordSnapshot(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to record stats snapshot")
	}

	log.Info().
		Int("removed", len(res.Removed)).
		Int("protected", len(res.Protected)).
		Int64("bytes_freed", res.BytesFreed).
		Msg("cache cleanup completed")
	return res, nil
}

// PlanCleanup lists the entries Cleanup would evict under policy. Nothing is
// removed and no statistics change.
func (s *Store) PlanCleanup(ctx context.Context, policy service.CleanupPolicy) (service.EvictionResult, error) {
	entries, err := s.entries.List(ctx)
	if err != nil {
		return service.EvictionResult{}, fmt.Errorf("%w: plan cleanup: %w", entity.ErrStoreUnreachable, err)
	}
	return service.PlanEviction(entries, policy, s.now())
}

// Deduplicate keeps one entry per image hash, the most recently accessed one,
// and removes the others. It returns the number of entries removed.
func (s *Store) Deduplicate(ctx context.Context) (int, error) {
	log := logging.FromContext(ctx)

	s.maintenance.Lock()
	defer s.maintenance.Unlock()

	entries, err := s.entries.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: deduplicate: %w", entity.ErrStoreUnreachable, err)
	}

	removed := 0
	for _, group := range service.PlanDeduplication(entries) {
		for _, dup := range group.Remove {
			if err := s.removeEntry(ctx, dup); err != nil {
				log.Warn().Err(err).Str("key", dup.Key).Msg("failed to remove duplicate")
				continue
			}
			removed++
		}
		log.Debug().
			Str("image_hash", group.ImageHash).
			Str("kept", group.Keep.Key).
			Int("duplicates", len(group.Remove)).
			Msg("collapsed duplicate artifacts")
	}

	if err := s.recordSnapshot(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to record stats snapshot")
	}

	log.Info().Int("removed", removed).Msg("cache deduplication completed")
	return removed, nil
}
