package filtering

import (
	"context"
	"errors"

	"reportfilter/internal/options"
	"reportfilter/internal/report"
	"reportfilter/internal/session"
	apperrors "reportfilter/pkg/errors"
)

// toAppError maps domain errors onto HTTP-aware application errors.
func toAppError(err error) error {
	var appErr *apperrors.Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, report.ErrUnknownReport),
		errors.Is(err, report.ErrUnknownFilter),
		errors.Is(err, session.ErrNotFound):
		return apperrors.ErrNotFound.WithMessage("%s", err.Error()).WithCause(err)
	case errors.Is(err, report.ErrNotDependent):
		return apperrors.ErrValidation.WithMessage("%s", err.Error()).WithCause(err)
	case errors.Is(err, options.ErrUnknownEntityType), errors.Is(err, options.ErrUnknownField):
		// report and catalog disagree; nothing the caller can fix
		return apperrors.ErrInternal.WithCause(err)
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.ErrTimeout.WithCause(err)
	default:
		return apperrors.ErrServiceUnavailable.WithMessage("backend unavailable").WithCause(err)
	}
}
