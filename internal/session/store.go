// Package session holds the filter values a user has picked while a
// report is open. A session is created empty when the report opens,
// changes on every filter edit and is discarded on close or expiry.
package session

import (
	"context"
	"errors"
	"time"

	"reportfilter/internal/report"
)

var ErrNotFound = errors.New("session not found")

type Session struct {
	ID        string        `json:"id"`
	Report    string        `json:"report"`
	Values    report.Values `json:"values"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type Store interface {
	Open(ctx context.Context, reportName string) (*Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	// SetValue records value for filter. An empty value clears it.
	SetValue(ctx context.Context, id, filter, value string) (*Session, error)
	Close(ctx context.Context, id string) error
	Name() string
}
