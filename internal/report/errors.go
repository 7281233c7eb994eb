package report

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownReport = errors.New("unknown report")
	ErrUnknownFilter = errors.New("unknown filter")
	ErrNotDependent  = errors.New("filter declares no dependencies")
)

// ConfigError is a setup-time registration error.
type ConfigError struct {
	Report  string
	Filter  string
	Message string
}

func (e *ConfigError) Error() string {
	if e.Filter == "" {
		return fmt.Sprintf("report %q: %s", e.Report, e.Message)
	}
	return fmt.Sprintf("report %q, filter %q: %s", e.Report, e.Filter, e.Message)
}
