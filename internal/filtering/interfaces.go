package filtering

import (
	"context"

	"reportfilter/internal/report"
	"reportfilter/internal/session"
)

type Service interface {
	Reports(ctx context.Context) []ReportSummary
	FilterSet(ctx context.Context, reportName string) (*report.FilterSet, error)
	ComputeRestriction(ctx context.Context, reportName, filter string, values report.Values) (*report.Restriction, error)
	Options(ctx context.Context, reportName, filter string, req OptionsRequest) (*OptionsResult, error)

	OpenSession(ctx context.Context, reportName string) (*session.Session, error)
	GetSession(ctx context.Context, id string) (*session.Session, error)
	SetSessionValue(ctx context.Context, id, filter, value string) (*SessionUpdate, error)
	SessionOptions(ctx context.Context, id, filter, search string, limit int) (*OptionsResult, error)
	CloseSession(ctx context.Context, id string) error
}
