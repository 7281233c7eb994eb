package circuitbreaker

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"

	"reportfilter/pkg/metrics"
)

var ErrOpen = gobreaker.ErrOpenState

type Config struct {
	Name        string
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
	// MinRequests and FailureRatio decide when the breaker trips.
	MinRequests  uint32
	FailureRatio float64
	// IsSuccessful classifies errors that should not count as failures.
	IsSuccessful  func(err error) bool
	OnStateChange func(name string, from, to gobreaker.State)
}

func DefaultConfig(name string) Config {
	return Config{
		Name:         name,
		MaxRequests:  3,
		Interval:     60 * time.Second,
		Timeout:      30 * time.Second,
		MinRequests:  3,
		FailureRatio: 0.5,
	}
}

// Wrapper is a two-step breaker: callers ask for permission, do the work,
// then report the outcome. Work that outlives a single call, such as
// ranging over a lazy result set, reports when it finishes.
type Wrapper struct {
	cb           *gobreaker.TwoStepCircuitBreaker
	isSuccessful func(err error) bool
}

func NewWrapper(cfg Config) *Wrapper {
	minRequests := cfg.MinRequests
	if minRequests == 0 {
		minRequests = 1
	}
	ratio := cfg.FailureRatio
	if ratio <= 0 {
		ratio = 0.5
	}

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= ratio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			setStateMetric(name, to)
			if cfg.OnStateChange != nil {
				cfg.OnStateChange(name, from, to)
			}
		},
	}

	w := &Wrapper{
		cb: gobreaker.NewTwoStepCircuitBreaker(settings),
		isSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			// the caller gave up; the backend did not fail
			if errors.Is(err, context.Canceled) {
				return true
			}
			if cfg.IsSuccessful != nil {
				return cfg.IsSuccessful(err)
			}
			return false
		},
	}
	setStateMetric(cfg.Name, w.cb.State())

	return w
}

// Allow returns ErrOpen while the breaker is open. Otherwise the caller
// must invoke done exactly once with the outcome of the guarded work.
func (w *Wrapper) Allow() (done func(err error), err error) {
	report, err := w.cb.Allow()
	if err != nil {
		metrics.CircuitBreakerRequests.WithLabelValues(w.cb.Name(), "rejected").Inc()
		return nil, err
	}

	return func(err error) {
		ok := w.isSuccessful(err)
		report(ok)
		metrics.CircuitBreakerRequests.WithLabelValues(w.cb.Name(), w.cb.State().String()).Inc()
		if !ok {
			metrics.CircuitBreakerFailures.WithLabelValues(w.cb.Name()).Inc()
		}
	}, nil
}

// Execute runs fn under the breaker.
func Execute[T any](ctx context.Context, w *Wrapper, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	done, err := w.Allow()
	if err != nil {
		return zero, err
	}

	result, err := fn(ctx)
	done(err)
	if err != nil {
		return zero, err
	}
	return result, nil
}

func (w *Wrapper) State() gobreaker.State {
	return w.cb.State()
}

func (w *Wrapper) Counts() gobreaker.Counts {
	return w.cb.Counts()
}

func (w *Wrapper) Name() string {
	return w.cb.Name()
}

func (w *Wrapper) IsOpen() bool {
	return w.cb.State() == gobreaker.StateOpen
}

func setStateMetric(name string, state gobreaker.State) {
	var v float64
	switch state {
	case gobreaker.StateClosed:
		v = 0
	case gobreaker.StateHalfOpen:
		v = 1
	case gobreaker.StateOpen:
		v = 2
	}
	metrics.CircuitBreakerState.WithLabelValues(name).Set(v)
}
