// Package registry holds the static catalog of metric descriptors. The
// catalog is built once at process start and never mutated, so it is safe to
// share across workers without locking.
package registry

import (
	"fmt"

	"sumeval/pkg/core"
)

// ErrNotFound is returned when an unknown metric name is queried.
var ErrNotFound = fmt.Errorf("registry: metric not found")

// Registry is an immutable, declaration-ordered metric catalog.
type Registry struct {
	ordered []core.MetricDescriptor
	byName  map[string]core.MetricDescriptor
}

// New builds a registry from descriptors, preserving declaration order.
// Duplicate names and conformance-check metrics without a reference
// requirement are rejected.
func New(descriptors []core.MetricDescriptor) (*Registry, error) {
	r := &Registry{
		ordered: make([]core.MetricDescriptor, 0, len(descriptors)),
		byName:  make(map[string]core.MetricDescriptor, len(descriptors)),
	}
	for _, d := range descriptors {
		if d.Name == "" {
			return nil, fmt.Errorf("registry: descriptor with empty name")
		}
		if _, exists := r.byName[d.Name]; exists {
			return nil, fmt.Errorf("registry: duplicate metric %q", d.Name)
		}
		if d.Stage == core.StageConformance && !d.NeedsReference {
			return nil, fmt.Errorf("registry: conformance metric %q must require a reference", d.Name)
		}
		r.ordered = append(r.ordered, d)
		r.byName[d.Name] = d
	}
	return r, nil
}

// Default returns the built-in catalog.
func Default() *Registry {
	r, err := New(defaultDescriptors)
	if err != nil {
		// The built-in catalog is validated by tests; a bad entry is a
		// programming error.
		panic(err)
	}
	return r
}

// List returns all descriptors in declaration order.
func (r *Registry) List() []core.MetricDescriptor {
	out := make([]core.MetricDescriptor, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Get resolves a metric by name.
func (r *Registry) Get(name string) (core.MetricDescriptor, error) {
	d, ok := r.byName[name]
	if !ok {
		return core.MetricDescriptor{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return d, nil
}

// Has reports whether a metric with the given name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// ListByStage returns descriptors for one stage, in declaration order.
func (r *Registry) ListByStage(stage core.Stage) []core.MetricDescriptor {
	var out []core.MetricDescriptor
	for _, d := range r.ordered {
		if d.Stage == stage {
			out = append(out, d)
		}
	}
	return out
}

// ListByCategory returns descriptors for one category, in declaration order.
func (r *Registry) ListByCategory(category core.Category) []core.MetricDescriptor {
	var out []core.MetricDescriptor
	for _, d := range r.ordered {
		if d.Category == category {
			out = append(out, d)
		}
	}
	return out
}
