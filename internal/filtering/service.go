package filtering

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"reportfilter/internal/broker"
	"reportfilter/internal/constants"
	"reportfilter/internal/logger"
	"reportfilter/internal/options"
	"reportfilter/internal/report"
	"reportfilter/internal/session"
	apperrors "reportfilter/pkg/errors"
	"reportfilter/pkg/logging"
	"reportfilter/pkg/metrics"
	"reportfilter/pkg/models"
	"reportfilter/pkg/tracing"
)

type service struct {
	registry     *report.Registry
	provider     options.Provider
	sessions     session.Store
	publisher    broker.Publisher
	logger       logger.Logger
	defaultLimit int

	publishTimeout time.Duration
}

type ServiceOption func(*service)

func WithPublisher(p broker.Publisher) ServiceOption {
	return func(s *service) {
		s.publisher = p
	}
}

// WithPublishTimeout caps how long a request waits on the event publisher.
func WithPublishTimeout(d time.Duration) ServiceOption {
	return func(s *service) {
		if d > 0 {
			s.publishTimeout = d
		}
	}
}

func WithLogger(log logger.Logger) ServiceOption {
	return func(s *service) {
		s.logger = log
	}
}

func WithDefaultLimit(limit int) ServiceOption {
	return func(s *service) {
		if limit > 0 {
			s.defaultLimit = limit
		}
	}
}

func NewService(registry *report.Registry, provider options.Provider, sessions session.Store, opts ...ServiceOption) Service {
	s := &service{
		registry:     registry,
		provider:     provider,
		sessions:     sessions,
		publisher:    broker.NoopPublisher{},
		logger:       logger.NopLogger(),
		defaultLimit: constants.DefaultOptionLimit,

		publishTimeout: constants.PublishTimeout,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *service) Reports(ctx context.Context) []ReportSummary {
	sets := s.registry.All()
	out := make([]ReportSummary, 0, len(sets))
	for _, set := range sets {
		out = append(out, ReportSummary{Name: set.Report, Filters: len(set.Filters)})
	}
	return out
}

func (s *service) FilterSet(ctx context.Context, reportName string) (*report.FilterSet, error) {
	set, err := s.registry.Get(reportName)
	if err != nil {
		return nil, toAppError(err)
	}
	return set, nil
}

func (s *service) ComputeRestriction(ctx context.Context, reportName, filter string, values report.Values) (r *report.Restriction, err error) {
	ctx, span := tracing.StartSpan(ctx, "filtering.ComputeRestriction",
		attribute.String("report", reportName),
		attribute.String("filter", filter),
	)
	defer func() { tracing.EndSpan(span, err) }()

	set, err := s.registry.Get(reportName)
	if err != nil {
		metrics.IncRestrictionComputation(reportName, filter, "error")
		return nil, toAppError(err)
	}

	r, err = set.ComputeRestriction(filter, values)
	switch {
	case err != nil:
		metrics.IncRestrictionComputation(reportName, filter, "error")
		return nil, toAppError(err)
	case r == nil:
		metrics.IncRestrictionComputation(reportName, filter, "unrestricted")
	default:
		metrics.IncRestrictionComputation(reportName, filter, "restricted")
	}

	return r, nil
}

func (s *service) Options(ctx context.Context, reportName, filter string, req OptionsRequest) (result *OptionsResult, err error) {
	ctx, span := tracing.StartSpan(ctx, "filtering.Options",
		attribute.String("report", reportName),
		attribute.String("filter", filter),
	)
	defer func() { tracing.EndSpan(span, err) }()

	limit, err := s.limit(req.Limit)
	if err != nil {
		return nil, err
	}

	set, err := s.registry.Get(reportName)
	if err != nil {
		return nil, toAppError(err)
	}

	def, ok := set.Filter(filter)
	if !ok {
		return nil, toAppError(fmt.Errorf("%w: %q in report %q", report.ErrUnknownFilter, filter, reportName))
	}
	if !def.IsLink() {
		return nil, apperrors.ErrValidation.WithMessage("filter %q is not a link filter", filter)
	}

	// recomputed on every call so the list always reflects current values
	var restriction *report.Restriction
	if def.IsDependent() {
		restriction, err = s.ComputeRestriction(ctx, reportName, filter, req.Values)
		if err != nil {
			return nil, err
		}
	}

	seq, err := s.provider.Query(ctx, def.Options, options.Query{
		Restriction: restriction,
		Search:      req.Search,
		Limit:       limit,
	})
	if err != nil {
		s.logger.ErrorwCtx(ctx, "Option lookup rejected", "error", err, "entity_type", def.Options)
		return nil, toAppError(err)
	}

	opts, err := options.Collect(seq, limit)
	if err != nil {
		s.logger.ErrorwCtx(ctx, "Option lookup failed", "error", err, "entity_type", def.Options)
		return nil, toAppError(err)
	}

	return &OptionsResult{
		Report:      reportName,
		Filter:      filter,
		EntityType:  def.Options,
		Restriction: restriction,
		Options:     opts,
	}, nil
}

func (s *service) limit(requested int) (int, error) {
	switch {
	case requested < 0:
		return 0, apperrors.ErrValidation.WithMessage("limit must not be negative")
	case requested == 0:
		return s.defaultLimit, nil
	case requested > constants.MaxLimit:
		return constants.MaxLimit, nil
	default:
		return requested, nil
	}
}

func (s *service) OpenSession(ctx context.Context, reportName string) (*session.Session, error) {
	if _, err := s.registry.Get(reportName); err != nil {
		return nil, toAppError(err)
	}

	sess, err := s.sessions.Open(ctx, reportName)
	if err != nil {
		return nil, toAppError(err)
	}

	ctx = logging.WithSessionID(logging.WithReport(ctx, reportName), sess.ID)
	s.logger.InfowCtx(ctx, "Session opened")
	s.publish(ctx, models.NewEvent(models.EventSessionOpened, constants.ServiceName, reportName, sess.ID))

	return sess, nil
}

func (s *service) GetSession(ctx context.Context, id string) (*session.Session, error) {
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, toAppError(err)
	}
	return sess, nil
}

func (s *service) SetSessionValue(ctx context.Context, id, filter, value string) (*SessionUpdate, error) {
	current, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, toAppError(err)
	}

	set, err := s.registry.Get(current.Report)
	if err != nil {
		return nil, toAppError(err)
	}
	if _, ok := set.Filter(filter); !ok {
		return nil, apperrors.ErrValidation.
			WithMessage("report %q has no filter %q", current.Report, filter).
			WithDetail("filter", filter)
	}

	updated, err := s.sessions.SetValue(ctx, id, filter, value)
	if err != nil {
		return nil, toAppError(err)
	}

	stale := make([]string, 0)
	if current.Values.Get(filter) != value {
		for _, dep := range set.Dependents(filter) {
			if updated.Values.Get(dep) != "" {
				stale = append(stale, dep)
			}
		}
	}

	ctx = logging.WithSessionID(logging.WithReport(ctx, current.Report), id)
	s.logger.DebugwCtx(ctx, "Filter value changed", "filter", filter, "stale_dependents", stale)
	s.publish(ctx, models.NewEvent(models.EventFilterValueChanged, constants.ServiceName, current.Report, id).
		WithPayload("filter", filter).
		WithPayload("value", value))

	return &SessionUpdate{Session: updated, StaleDependents: stale}, nil
}

func (s *service) SessionOptions(ctx context.Context, id, filter, search string, limit int) (*OptionsResult, error) {
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, toAppError(err)
	}

	ctx = logging.WithSessionID(ctx, id)
	return s.Options(ctx, sess.Report, filter, OptionsRequest{
		Values: sess.Values,
		Search: search,
		Limit:  limit,
	})
}

func (s *service) CloseSession(ctx context.Context, id string) error {
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return toAppError(err)
	}

	if err := s.sessions.Close(ctx, id); err != nil {
		return toAppError(err)
	}

	ctx = logging.WithSessionID(logging.WithReport(ctx, sess.Report), id)
	s.logger.InfowCtx(ctx, "Session closed")
	s.publish(ctx, models.NewEvent(models.EventSessionClosed, constants.ServiceName, sess.Report, id))

	return nil
}

// publish never fails the caller; a lost event is only logged. The wait is
// capped by publishTimeout so a broker outage costs each request at most that.
func (s *service) publish(ctx context.Context, event models.Event) {
	pubCtx, cancel := context.WithTimeout(ctx, s.publishTimeout)
	defer cancel()

	if err := s.publisher.Publish(pubCtx, event); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		s.logger.WarnwCtx(ctx, "Failed to publish session event",
			"event_type", event.Type,
			"error", err,
		)
	}
}
