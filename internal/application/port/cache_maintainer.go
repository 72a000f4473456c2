package port

import (
	"context"

	"github.com/bnema/walcache/internal/domain/service"
)

// CacheMaintainer runs the maintenance passes of the artifact store.
type CacheMaintainer interface {
	Cleanup(ctx context.Context, policy service.CleanupPolicy) (service.EvictionResult, error)
	// PlanCleanup reports what Cleanup would remove without touching the cache.
	PlanCleanup(ctx context.Context, policy service.CleanupPolicy) (service.EvictionResult, error)
	Deduplicate(ctx context.Context) (int, error)
}
