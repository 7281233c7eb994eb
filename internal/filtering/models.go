package filtering

import (
	"reportfilter/internal/options"
	"reportfilter/internal/report"
	"reportfilter/internal/session"
)

type ReportSummary struct {
	Name    string `json:"name"`
	Filters int    `json:"filters"`
}

type FilterSetResponse struct {
	Report  string                    `json:"report"`
	Filters []report.FilterDefinition `json:"filters"`
}

type RestrictionRequest struct {
	Values report.Values `json:"values"`
}

// RestrictionResponse carries a null restriction when the filter's
// options are unconstrained.
type RestrictionResponse struct {
	Restriction *report.Restriction `json:"restriction"`
	Filters     map[string]string   `json:"filters,omitempty"`
}

type OptionsRequest struct {
	Values report.Values `json:"values"`
	Search string        `json:"search"`
	Limit  int           `json:"limit"`
}

type OptionsResult struct {
	Report      string              `json:"report"`
	Filter      string              `json:"filter"`
	EntityType  string              `json:"entity_type"`
	Restriction *report.Restriction `json:"restriction"`
	Options     []options.Option    `json:"options"`
}

type OpenSessionRequest struct {
	Report string `json:"report" binding:"required"`
}

type SetValueRequest struct {
	Value string `json:"value"`
}

// SessionUpdate is the session after a value change. StaleDependents
// names dependents of the changed filter that still hold a value picked
// under the old one; they are left as they are.
type SessionUpdate struct {
	Session         *session.Session `json:"session"`
	StaleDependents []string         `json:"stale_dependents"`
}
