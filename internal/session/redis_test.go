package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"reportfilter/internal/report"
)

func TestDecode(t *testing.T) {
	created := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	sess := decode("abc", map[string]string{
		"_report":       report.ReportBOQ,
		"_created_at":   created.Format(time.RFC3339Nano),
		"_updated_at":   created.Format(time.RFC3339Nano),
		"v:project":     "PROJ-0001",
		"v:sales_order": "SO-0001",
	})

	assert.Equal(t, "abc", sess.ID)
	assert.Equal(t, report.ReportBOQ, sess.Report)
	assert.True(t, created.Equal(sess.CreatedAt))
	assert.Equal(t, report.Values{"project": "PROJ-0001", "sales_order": "SO-0001"}, sess.Values)
	assert.Equal(t, "session:abc", key("abc"))
}
