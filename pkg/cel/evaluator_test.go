package cel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reportfilter/internal/report"
)

func TestNewEvaluator(t *testing.T) {
	eval, err := NewEvaluator()
	require.NoError(t, err)
	assert.NotNil(t, eval)
}

func TestRestrictionExpression(t *testing.T) {
	assert.Equal(t, "true", RestrictionExpression(nil))

	r := &report.Restriction{Conditions: []report.Condition{{Field: "project", Equals: "PROJ-0001"}}}
	assert.Equal(t,
		`(restriction_fields[0] in entity && entity[restriction_fields[0]] == restriction_values[0])`,
		RestrictionExpression(r))
}

func TestMatches(t *testing.T) {
	eval, err := NewEvaluator()
	require.NoError(t, err)
	ctx := context.Background()

	tests := []struct {
		name        string
		restriction *report.Restriction
		fields      map[string]string
		want        bool
	}{
		{
			name:        "no restriction",
			restriction: nil,
			fields:      map[string]string{"project": "PROJ-0002"},
			want:        true,
		},
		{
			name:        "exact match",
			restriction: &report.Restriction{Conditions: []report.Condition{{Field: "project", Equals: "PROJ-0001"}}},
			fields:      map[string]string{"project": "PROJ-0001"},
			want:        true,
		},
		{
			name:        "different value",
			restriction: &report.Restriction{Conditions: []report.Condition{{Field: "project", Equals: "PROJ-0001"}}},
			fields:      map[string]string{"project": "PROJ-0002"},
			want:        false,
		},
		{
			name:        "prefix is not a match",
			restriction: &report.Restriction{Conditions: []report.Condition{{Field: "project", Equals: "PROJ-0001"}}},
			fields:      map[string]string{"project": "PROJ-00011"},
			want:        false,
		},
		{
			name:        "missing field",
			restriction: &report.Restriction{Conditions: []report.Condition{{Field: "project", Equals: "PROJ-0001"}}},
			fields:      map[string]string{"customer": "PROJ-0001"},
			want:        false,
		},
		{
			name: "conjunction",
			restriction: &report.Restriction{Conditions: []report.Condition{
				{Field: "company", Equals: "ACME"},
				{Field: "project", Equals: `quote "x"`},
			}},
			fields: map[string]string{"company": "ACME", "project": `quote "x"`},
			want:   true,
		},
		{
			name:        "invalid utf-8 value",
			restriction: &report.Restriction{Conditions: []report.Condition{{Field: "project", Equals: "PROJ\xff01"}}},
			fields:      map[string]string{"project": "PROJ\xff01"},
			want:        true,
		},
		{
			name:        "invalid utf-8 is not its code point",
			restriction: &report.Restriction{Conditions: []report.Condition{{Field: "project", Equals: "PROJ\xff01"}}},
			fields:      map[string]string{"project": "PROJ\u00ff01"},
			want:        false,
		},
		{
			name:        "nul byte",
			restriction: &report.Restriction{Conditions: []report.Condition{{Field: "project", Equals: "PROJ\x0001"}}},
			fields:      map[string]string{"project": "PROJ\x0001"},
			want:        true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program, err := eval.CompileRestriction(tt.restriction)
			require.NoError(t, err)

			got, err := eval.Matches(ctx, program, tt.fields)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.restriction.Matches(tt.fields), got)
		})
	}
}
