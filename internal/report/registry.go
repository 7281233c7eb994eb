package report

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds the filter sets of every known report, keyed by report name.
type Registry struct {
	mu   sync.RWMutex
	sets map[string]*FilterSet
}

func NewRegistry() *Registry {
	return &Registry{sets: make(map[string]*FilterSet)}
}

// NewRegistryWith registers each set in order and stops at the first invalid one.
func NewRegistryWith(sets ...*FilterSet) (*Registry, error) {
	r := NewRegistry()
	for _, s := range sets {
		if err := r.Register(s); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) Register(set *FilterSet) error {
	if set == nil {
		return &ConfigError{Message: "filter set is nil"}
	}
	if err := Validate(set); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sets[set.Report]; exists {
		return &ConfigError{Report: set.Report, Message: "report already registered"}
	}
	set.reindex()
	r.sets[set.Report] = set
	return nil
}

func (r *Registry) Get(reportName string) (*FilterSet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set, ok := r.sets[reportName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownReport, reportName)
	}
	return set, nil
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.sets))
	for name := range r.sets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) All() []*FilterSet {
	names := r.Names()

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*FilterSet, 0, len(names))
	for _, name := range names {
		out = append(out, r.sets[name])
	}
	return out
}

// Validate checks a filter set before registration: unique names, link targets
// and dependencies declared earlier in the set. Declaration order rules out
// dependency cycles.
func Validate(set *FilterSet) error {
	if set.Report == "" {
		return &ConfigError{Message: "report name is required"}
	}
	if len(set.Filters) == 0 {
		return &ConfigError{Report: set.Report, Message: "at least one filter is required"}
	}

	seen := make(map[string]int, len(set.Filters))

	for i, f := range set.Filters {
		if f.Name == "" {
			return &ConfigError{Report: set.Report, Message: fmt.Sprintf("filter at position %d has no name", i)}
		}
		if _, dup := seen[f.Name]; dup {
			return &ConfigError{Report: set.Report, Filter: f.Name, Message: "duplicate filter name"}
		}
		if !f.Type.Valid() {
			return &ConfigError{Report: set.Report, Filter: f.Name, Message: fmt.Sprintf("unsupported field type %q", f.Type)}
		}
		if f.IsLink() && f.Options == "" {
			return &ConfigError{Report: set.Report, Filter: f.Name, Message: "link filter requires an entity type in options"}
		}

		for _, dep := range f.DependsOn {
			if dep == f.Name {
				return &ConfigError{Report: set.Report, Filter: f.Name, Message: "filter cannot depend on itself"}
			}
			if _, declared := seen[dep]; !declared {
				return &ConfigError{Report: set.Report, Filter: f.Name, Message: fmt.Sprintf("depends on %q which is not declared before it", dep)}
			}
		}
		seen[f.Name] = i
	}

	return nil
}
