package port

import (
	"context"

	"github.com/bnema/walcache/internal/domain/entity"
)

// Backend computes a color scheme artifact for an image.
type Backend interface {
	// Name is the registry key and the value recorded on cache entries.
	Name() string

	// IsAvailable reports whether the backend can run on this host.
	IsAvailable(ctx context.Context) bool

	// Compute extracts the palette. Errors should wrap entity.ErrBackendFailed
	// or entity.ErrBackendUnavailable.
	Compute(ctx context.Context, image string, isLight bool, saturation string) (*entity.Artifact, error)
}

// BackendRegistry resolves backends by name. It is populated once at startup.
type BackendRegistry interface {
	Lookup(name string) (Backend, bool)
	// Names returns every registered backend in registration order.
	Names() []string
	// Available returns the registered backends that report themselves available,
	// in registration order.
	Available(ctx context.Context) []string
}
