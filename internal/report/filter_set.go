package report

import "fmt"

// FilterSet is the ordered list of filters declared for one report.
// Definition order is display order.
type FilterSet struct {
	Report  string             `json:"report" yaml:"report"`
	Filters []FilterDefinition `json:"filters" yaml:"filters"`

	index map[string]int
}

func NewFilterSet(reportName string, filters ...FilterDefinition) *FilterSet {
	s := &FilterSet{
		Report:  reportName,
		Filters: filters,
	}
	s.reindex()
	return s
}

func (s *FilterSet) reindex() {
	s.index = make(map[string]int, len(s.Filters))
	for i, f := range s.Filters {
		if _, dup := s.index[f.Name]; !dup {
			s.index[f.Name] = i
		}
	}
}

func (s *FilterSet) Filter(name string) (FilterDefinition, bool) {
	if s.index == nil {
		s.reindex()
	}
	i, ok := s.index[name]
	if !ok {
		return FilterDefinition{}, false
	}
	return s.Filters[i], true
}

// Dependents returns the filters whose options are narrowed by name, in display order.
func (s *FilterSet) Dependents(name string) []string {
	var out []string
	for _, f := range s.Filters {
		for _, dep := range f.DependsOn {
			if dep == name {
				out = append(out, f.Name)
				break
			}
		}
	}
	return out
}

// ComputeRestriction returns the restriction for filter name given the current values.
// The result is nil when any dependency is unset. Calling it for an unknown filter or
// for a filter without dependencies is a caller error.
func (s *FilterSet) ComputeRestriction(name string, values Values) (*Restriction, error) {
	def, ok := s.Filter(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s in report %s", ErrUnknownFilter, name, s.Report)
	}
	if !def.IsDependent() {
		return nil, fmt.Errorf("%w: %s in report %s", ErrNotDependent, name, s.Report)
	}
	return restrictionFor(def.DependsOn, values), nil
}

// QueryFunc returns the restriction callback for a dependent filter.
func (s *FilterSet) QueryFunc(name string) (QueryFunc, bool) {
	def, ok := s.Filter(name)
	if !ok || !def.IsDependent() {
		return nil, false
	}
	deps := append([]string(nil), def.DependsOn...)
	return func(values Values) *Restriction {
		return restrictionFor(deps, values)
	}, true
}

func restrictionFor(dependsOn []string, values Values) *Restriction {
	conditions := make([]Condition, 0, len(dependsOn))
	for _, dep := range dependsOn {
		v := values.Get(dep)
		if v == "" {
			return nil
		}
		conditions = append(conditions, Condition{Field: dep, Equals: v})
	}
	return &Restriction{Conditions: conditions}
}
