package report

import "sort"

type FieldType string

const (
	FieldTypeLink   FieldType = "Link"
	FieldTypeData   FieldType = "Data"
	FieldTypeDate   FieldType = "Date"
	FieldTypeSelect FieldType = "Select"
	FieldTypeCheck  FieldType = "Check"
)

func (t FieldType) Valid() bool {
	switch t {
	case FieldTypeLink, FieldTypeData, FieldTypeDate, FieldTypeSelect, FieldTypeCheck:
		return true
	default:
		return false
	}
}

// FilterDefinition describes one input control of a report view.
type FilterDefinition struct {
	Name      string    `json:"fieldname" yaml:"fieldname"`
	Label     string    `json:"label" yaml:"label"`
	Type      FieldType `json:"fieldtype" yaml:"fieldtype"`
	Options   string    `json:"options,omitempty" yaml:"options,omitempty"` // linked entity type for Link filters
	Required  bool      `json:"reqd" yaml:"reqd"`
	Default   string    `json:"default,omitempty" yaml:"default,omitempty"`
	DependsOn []string  `json:"depends_on,omitempty" yaml:"depends_on,omitempty"`
}

func (d FilterDefinition) IsLink() bool {
	return d.Type == FieldTypeLink
}

func (d FilterDefinition) IsDependent() bool {
	return len(d.DependsOn) > 0
}

// Values is the current value of each filter on an open report view.
// An absent key and an empty string both mean "unset".
type Values map[string]string

func (v Values) Get(name string) string {
	if v == nil {
		return ""
	}
	return v[name]
}

func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

type Condition struct {
	Field  string `json:"field"`
	Equals string `json:"equals"`
}

// Restriction narrows a link filter's candidate list. All conditions must hold.
type Restriction struct {
	Conditions []Condition `json:"conditions"`
}

// Filters returns the restriction in the host framework's query shape,
// e.g. {"project": "PROJ-0001"}.
func (r *Restriction) Filters() map[string]string {
	if r == nil {
		return nil
	}
	out := make(map[string]string, len(r.Conditions))
	for _, c := range r.Conditions {
		out[c.Field] = c.Equals
	}
	return out
}

// Fields returns the restricted field names, sorted.
func (r *Restriction) Fields() []string {
	if r == nil {
		return nil
	}
	fields := make([]string, 0, len(r.Conditions))
	for _, c := range r.Conditions {
		fields = append(fields, c.Field)
	}
	sort.Strings(fields)
	return fields
}

// Matches reports whether fields satisfies every condition by exact string equality.
// A nil restriction matches everything.
func (r *Restriction) Matches(fields map[string]string) bool {
	if r == nil {
		return true
	}
	for _, c := range r.Conditions {
		v, ok := fields[c.Field]
		if !ok || v != c.Equals {
			return false
		}
	}
	return true
}

// QueryFunc is the callback a host calls to narrow a dependent filter's options.
// A nil result means the option list is unconstrained.
type QueryFunc func(values Values) *Restriction
