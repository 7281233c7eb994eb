package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRegisterIsIdempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Register()
		Register()
	})
}

func TestIncRestrictionComputation(t *testing.T) {
	before := testutil.ToFloat64(RestrictionComputationsTotal.WithLabelValues("BOQ Report", "task", "restricted"))
	IncRestrictionComputation("BOQ Report", "task", "restricted")
	after := testutil.ToFloat64(RestrictionComputationsTotal.WithLabelValues("BOQ Report", "task", "restricted"))

	assert.Equal(t, before+1, after)
}

func TestSessionsActive(t *testing.T) {
	start := testutil.ToFloat64(SessionsActive)
	IncSessionsActive()
	IncSessionsActive()
	DecSessionsActive()

	assert.Equal(t, start+1, testutil.ToFloat64(SessionsActive))
}
