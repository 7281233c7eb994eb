package options

import (
	"context"
	"fmt"

	"reportfilter/pkg/circuitbreaker"
)

// CircuitBreakerProvider guards another provider. A lookup counts as failed
// when the query or any step of its sequence fails; the returned sequence
// must be ranged over for the outcome to be recorded.
type CircuitBreakerProvider struct {
	inner   Provider
	breaker *circuitbreaker.Wrapper
}

func NewCircuitBreakerProvider(inner Provider, cfg circuitbreaker.Config) *CircuitBreakerProvider {
	if cfg.Name == "" {
		cfg.Name = "options_" + inner.Name()
	}
	userClassifier := cfg.IsSuccessful
	cfg.IsSuccessful = func(err error) bool {
		if isCallerError(err) {
			return true
		}
		return userClassifier != nil && userClassifier(err)
	}

	return &CircuitBreakerProvider{
		inner:   inner,
		breaker: circuitbreaker.NewWrapper(cfg),
	}
}

func (p *CircuitBreakerProvider) Name() string {
	return p.inner.Name()
}

func (p *CircuitBreakerProvider) Breaker() *circuitbreaker.Wrapper {
	return p.breaker
}

func (p *CircuitBreakerProvider) Query(ctx context.Context, entityType string, q Query) (Sequence, error) {
	done, err := p.breaker.Allow()
	if err != nil {
		return nil, fmt.Errorf("%s options unavailable: %w", p.inner.Name(), err)
	}

	seq, err := p.inner.Query(ctx, entityType, q)
	if err != nil {
		done(err)
		return nil, err
	}

	return func(yield func(Option, error) bool) {
		var failure error
		defer func() { done(failure) }()

		for opt, err := range seq {
			if err != nil {
				failure = err
				yield(Option{}, err)
				return
			}
			if !yield(opt, nil) {
				return
			}
		}
	}, nil
}
