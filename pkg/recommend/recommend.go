// Package recommend selects a metric set appropriate for the inputs a caller
// actually has. Selection is deterministic: within a category, ties are
// broken by catalog declaration order.
package recommend

import (
	"sumeval/pkg/core"
	"sumeval/pkg/registry"
)

// Recommender maps an input scenario to an ordered list of metric names.
type Recommender struct {
	Registry *registry.Registry
}

// Metrics returns metric names for the given scenario.
//
//	source + reference        -> integrity-check and conformance-check metrics
//	source only               -> integrity-check metrics
//	reference only            -> word-overlap and semantic conformance metrics
//	neither                   -> fluency metrics
//	quick (any inputs)        -> one representative metric per category
func (r *Recommender) Metrics(hasSource, hasReference, quick bool) []string {
	if quick {
		return r.quickSet()
	}

	switch {
	case hasSource && hasReference:
		names := descriptorNames(r.Registry.ListByStage(core.StageIntegrity))
		return append(names, descriptorNames(r.Registry.ListByStage(core.StageConformance))...)
	case hasSource:
		return descriptorNames(r.Registry.ListByStage(core.StageIntegrity))
	case hasReference:
		var names []string
		for _, d := range r.Registry.ListByStage(core.StageConformance) {
			if d.Category == core.CategoryWordOverlap || d.Category == core.CategorySemantic {
				names = append(names, d.Name)
			}
		}
		return names
	default:
		return descriptorNames(r.Registry.ListByCategory(core.CategoryFluency))
	}
}

// quickSet picks the first declared metric of every category.
func (r *Recommender) quickSet() []string {
	seen := make(map[core.Category]bool)
	var names []string
	for _, d := range r.Registry.List() {
		if seen[d.Category] {
			continue
		}
		seen[d.Category] = true
		names = append(names, d.Name)
	}
	return names
}

func descriptorNames(descriptors []core.MetricDescriptor) []string {
	names := make([]string, 0, len(descriptors))
	for _, d := range descriptors {
		names = append(names, d.Name)
	}
	return names
}
