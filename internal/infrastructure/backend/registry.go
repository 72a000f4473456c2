// Package backend holds the color extraction backends and their registry.
package backend

import (
	"context"
	"fmt"

	"github.com/bnema/walcache/internal/application/port"
)

// Registry is a fixed, ordered set of backends built at startup.
type Registry struct {
	order  []string
	byName map[string]port.Backend
}

var _ port.BackendRegistry = (*Registry)(nil)

// NewRegistry registers backends in the given order. Names must be unique.
func NewRegistry(backends ...port.Backend) (*Registry, error) {
	r := &Registry{byName: make(map[string]port.Backend, len(backends))}
	for _, b := range backends {
		name := b.Name()
		if name == "" {
			return nil, fmt.Errorf("backend with empty name")
		}
		if _, dup := r.byName[name]; dup {
			return nil, fmt.Errorf("backend %q registered twice", name)
		}
		r.byName[name] = b
		r.order = append(r.order, name)
	}
	return r, nil
}

func (r *Registry) Lookup(name string) (port.Backend, bool) {
	b, ok := r.byName[name]
	return b, ok
}

func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

func (r *Registry) Available(ctx context.Context) []string {
	var out []string
	for _, name := range r.order {
		if r.byName[name].IsAvailable(ctx) {
			out = append(out, name)
		}
	}
	return out
}
