package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reportfilter/internal/report"
)

func TestMemoryStore_Contract(t *testing.T) {
	testStoreContract(t, NewMemoryStore(time.Hour))
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	sess, err := store.Open(ctx, report.ReportBOQ)
	require.NoError(t, err)

	now = now.Add(50 * time.Second)
	_, err = store.SetValue(ctx, sess.ID, report.FilterProject, "PROJ-0001")
	require.NoError(t, err)

	// the write pushed expiry out
	now = now.Add(50 * time.Second)
	_, err = store.Get(ctx, sess.ID)
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = store.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, store.Len())
}

func TestMemoryStore_OpenSweeps(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := store.Open(ctx, report.ReportSCurve)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, store.Len())

	now = now.Add(time.Hour)
	_, err := store.Open(ctx, report.ReportSCurve)
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())
}
