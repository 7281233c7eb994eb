package session

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reportfilter/internal/report"
	"reportfilter/pkg/metrics"
)

// testStoreContract runs the behaviour every Store must share.
func testStoreContract(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("open is empty", func(t *testing.T) {
		sess, err := store.Open(ctx, report.ReportBOQ)
		require.NoError(t, err)
		assert.NotEmpty(t, sess.ID)
		assert.Equal(t, report.ReportBOQ, sess.Report)
		assert.Empty(t, sess.Values)
	})

	t.Run("set and clear values", func(t *testing.T) {
		sess, err := store.Open(ctx, report.ReportBOQ)
		require.NoError(t, err)

		updated, err := store.SetValue(ctx, sess.ID, report.FilterProject, "PROJ-0001")
		require.NoError(t, err)
		assert.Equal(t, report.Values{"project": "PROJ-0001"}, updated.Values)

		_, err = store.SetValue(ctx, sess.ID, report.FilterTask, "TASK-0001")
		require.NoError(t, err)

		cleared, err := store.SetValue(ctx, sess.ID, report.FilterProject, "")
		require.NoError(t, err)
		assert.Equal(t, report.Values{"task": "TASK-0001"}, cleared.Values)

		got, err := store.Get(ctx, sess.ID)
		require.NoError(t, err)
		assert.Equal(t, cleared.Values, got.Values)
		assert.Equal(t, report.ReportBOQ, got.Report)
	})

	t.Run("snapshots are detached", func(t *testing.T) {
		sess, err := store.Open(ctx, report.ReportSCurve)
		require.NoError(t, err)

		got, err := store.SetValue(ctx, sess.ID, report.FilterProject, "PROJ-0001")
		require.NoError(t, err)
		got.Values["project"] = "PROJ-0002"

		again, err := store.Get(ctx, sess.ID)
		require.NoError(t, err)
		assert.Equal(t, "PROJ-0001", again.Values.Get("project"))
	})

	t.Run("close", func(t *testing.T) {
		sess, err := store.Open(ctx, report.ReportBOQ)
		require.NoError(t, err)

		require.NoError(t, store.Close(ctx, sess.ID))
		assert.ErrorIs(t, store.Close(ctx, sess.ID), ErrNotFound)

		_, err = store.Get(ctx, sess.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = store.SetValue(ctx, sess.ID, report.FilterProject, "PROJ-0001")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("concurrent set value", func(t *testing.T) {
		sess, err := store.Open(ctx, report.ReportBOQ)
		require.NoError(t, err)

		const writers, rounds = 6, 20
		var wg sync.WaitGroup
		errs := make(chan error, writers*rounds)
		for w := 0; w < writers; w++ {
			wg.Add(1)
			go func(w int) {
				defer wg.Done()
				filter := fmt.Sprintf("filter_%d", w)
				for r := 0; r < rounds; r++ {
					if _, err := store.SetValue(ctx, sess.ID, filter, fmt.Sprintf("value_%d", r)); err != nil {
						errs <- err
					}
				}
			}(w)
		}
		wg.Wait()
		close(errs)

		for err := range errs {
			assert.NoError(t, err)
		}

		got, err := store.Get(ctx, sess.ID)
		require.NoError(t, err)
		require.Len(t, got.Values, writers)
		for w := 0; w < writers; w++ {
			assert.Equal(t, fmt.Sprintf("value_%d", rounds-1), got.Values.Get(fmt.Sprintf("filter_%d", w)))
		}
	})

	t.Run("active gauge follows open and close", func(t *testing.T) {
		start := testutil.ToFloat64(metrics.SessionsActive)

		sess, err := store.Open(ctx, report.ReportSCurve)
		require.NoError(t, err)
		assert.Equal(t, start+1, testutil.ToFloat64(metrics.SessionsActive))

		require.NoError(t, store.Close(ctx, sess.ID))
		assert.Equal(t, start, testutil.ToFloat64(metrics.SessionsActive))

		assert.ErrorIs(t, store.Close(ctx, sess.ID), ErrNotFound)
		assert.Equal(t, start, testutil.ToFloat64(metrics.SessionsActive))
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := store.Get(ctx, "does-not-exist")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
