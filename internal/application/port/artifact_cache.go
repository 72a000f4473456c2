package port

import (
	"context"

	"github.com/bnema/walcache/internal/domain/entity"
)

// PutOptions carries the metadata stored alongside an artifact.
type PutOptions struct {
	Backend   string
	ImageHash string
	Compress  bool
}

// ArtifactCache is the part of the artifact store the batch pipeline needs.
// Get never fails: every problem is reported as a miss.
type ArtifactCache interface {
	Get(ctx context.Context, key string) (*entity.Artifact, bool)
	Put(ctx context.Context, key string, artifact *entity.Artifact, opts PutOptions) error
}

// Fingerprinter derives cache keys from image content and generation parameters.
type Fingerprinter interface {
	Fingerprint(ctx context.Context, image, backend string, isLight bool, saturation string) entity.Fingerprint
}
