package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBackend = errors.New("backend down")

func TestExecute_TripsAfterFailures(t *testing.T) {
	w := NewWrapper(Config{Name: "test-trip", MaxRequests: 1, Timeout: time.Minute, MinRequests: 2, FailureRatio: 0.5})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := Execute(ctx, w, func(context.Context) (int, error) { return 0, errBackend })
		require.ErrorIs(t, err, errBackend)
	}

	assert.True(t, w.IsOpen())

	called := false
	_, err := Execute(ctx, w, func(context.Context) (int, error) {
		called = true
		return 1, nil
	})
	assert.ErrorIs(t, err, ErrOpen)
	assert.False(t, called)
}

func TestExecute_ReturnsValue(t *testing.T) {
	w := NewWrapper(DefaultConfig("test-value"))

	got, err := Execute(context.Background(), w, func(context.Context) ([]string, error) {
		return []string{"a", "b"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, gobreaker.StateClosed, w.State())
}

func TestExecute_IgnoresClassifiedErrors(t *testing.T) {
	errCaller := errors.New("unknown field")
	w := NewWrapper(Config{
		Name:         "test-ignore",
		MinRequests:  1,
		FailureRatio: 0.5,
		Timeout:      time.Minute,
		IsSuccessful: func(err error) bool { return errors.Is(err, errCaller) },
	})

	for i := 0; i < 5; i++ {
		_, err := Execute(context.Background(), w, func(context.Context) (int, error) { return 0, errCaller })
		require.ErrorIs(t, err, errCaller)
	}
	assert.False(t, w.IsOpen())
}

func TestExecute_CancelledContext(t *testing.T) {
	w := NewWrapper(DefaultConfig("test-cancel"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Execute(ctx, w, func(context.Context) (int, error) { return 1, nil })
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, uint32(0), w.Counts().Requests)
}

func TestAllow_ReportsLater(t *testing.T) {
	w := NewWrapper(Config{Name: "test-two-step", MaxRequests: 1, Timeout: time.Minute, MinRequests: 1, FailureRatio: 1})

	done, err := w.Allow()
	require.NoError(t, err)
	assert.False(t, w.IsOpen())

	done(errBackend)
	assert.True(t, w.IsOpen())

	_, err = w.Allow()
	assert.ErrorIs(t, err, ErrOpen)
}
