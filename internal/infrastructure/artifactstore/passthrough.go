package artifactstore

import (
	"context"
	"fmt"

	"github.com/bnema/walcache/internal/application/port"
	"github.com/bnema/walcache/internal/domain/entity"
)

// Passthrough stands in for the store when the cache index cannot be opened.
// Every lookup misses and every write fails, so batches still compute.
// Analytics reports an empty cache.
type Passthrough struct{}

var _ port.ArtifactCache = Passthrough{}

func (Passthrough) Get(context.Context, string) (*entity.Artifact, bool) {
	return nil, false
}

func (Passthrough) Put(_ context.Context, key string, _ *entity.Artifact, _ port.PutOptions) error {
	return fmt.Errorf("%w: put %s", entity.ErrStoreUnreachable, key)
}

func (Passthrough) Analytics(context.Context) entity.CacheStats {
	return entity.CacheStats{BackendUsage: map[string]int64{}}
}
