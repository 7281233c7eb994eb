// Package options answers "which entities may this link filter offer",
// narrowed by a dependency restriction, against a backing entity store.
package options

import (
	"context"
	"errors"
	"iter"
	"time"

	"reportfilter/internal/report"
	"reportfilter/pkg/metrics"
)

var (
	ErrUnknownEntityType = errors.New("unknown entity type")
	ErrUnknownField      = errors.New("field cannot be used in a restriction")
)

// Option is one selectable entity.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// Query narrows an entity lookup. A nil Restriction matches every entity.
// Limit <= 0 means no limit.
type Query struct {
	Restriction *report.Restriction
	Search      string
	Limit       int
}

// Sequence yields options lazily, in ascending value order. It is
// single-use; ranging over it twice is not supported. A non-nil error is
// the last element yielded.
type Sequence = iter.Seq2[Option, error]

type Provider interface {
	Query(ctx context.Context, entityType string, q Query) (Sequence, error)
	Name() string
}

// Collect drains seq into a slice, stopping after limit options when limit > 0.
func Collect(seq Sequence, limit int) ([]Option, error) {
	out := make([]Option, 0)
	for opt, err := range seq {
		if err != nil {
			return nil, err
		}
		out = append(out, opt)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func isCallerError(err error) bool {
	return errors.Is(err, ErrUnknownEntityType) || errors.Is(err, ErrUnknownField)
}

// observe records option_queries_total and the lookup duration once the
// sequence has been consumed or abandoned.
func observe(seq Sequence, entityType, source string) Sequence {
	return func(yield func(Option, error) bool) {
		start := time.Now()
		count := 0
		status := "success"
		defer func() {
			metrics.IncOptionQuery(entityType, source, status)
			metrics.ObserveOptionQueryDuration(entityType, source, time.Since(start))
			metrics.ObserveOptionsReturned(entityType, count)
		}()

		for opt, err := range seq {
			if err != nil {
				status = "error"
				yield(Option{}, err)
				return
			}
			count++
			if !yield(opt, nil) {
				return
			}
		}
	}
}

func errSequence(err error) Sequence {
	return func(yield func(Option, error) bool) {
		yield(Option{}, err)
	}
}
