package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeRestriction_BOQ(t *testing.T) {
	set := BOQFilters()

	tests := []struct {
		name   string
		filter string
		values Values
		want   *Restriction
	}{
		{
			name:   "project empty",
			filter: FilterSalesOrder,
			values: Values{FilterProject: ""},
			want:   nil,
		},
		{
			name:   "project absent",
			filter: FilterSalesOrder,
			values: Values{},
			want:   nil,
		},
		{
			name:   "nil values",
			filter: FilterTask,
			values: nil,
			want:   nil,
		},
		{
			name:   "sales order narrowed by project",
			filter: FilterSalesOrder,
			values: Values{FilterProject: "PROJ-0001"},
			want:   &Restriction{Conditions: []Condition{{Field: "project", Equals: "PROJ-0001"}}},
		},
		{
			name:   "task narrowed by project",
			filter: FilterTask,
			values: Values{FilterProject: "PROJ-0001"},
			want:   &Restriction{Conditions: []Condition{{Field: "project", Equals: "PROJ-0001"}}},
		},
		{
			name:   "whitespace is not trimmed",
			filter: FilterTask,
			values: Values{FilterProject: " "},
			want:   &Restriction{Conditions: []Condition{{Field: "project", Equals: " "}}},
		},
		{
			name:   "unrelated values ignored",
			filter: FilterTask,
			values: Values{FilterProject: "PROJ-0002", FilterSalesOrder: "SO-1"},
			want:   &Restriction{Conditions: []Condition{{Field: "project", Equals: "PROJ-0002"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := set.ComputeRestriction(tt.filter, tt.values)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeRestriction_PreconditionViolations(t *testing.T) {
	set := BOQFilters()

	_, err := set.ComputeRestriction(FilterProject, Values{FilterProject: "PROJ-0001"})
	assert.ErrorIs(t, err, ErrNotDependent)

	_, err = set.ComputeRestriction("customer", Values{})
	assert.ErrorIs(t, err, ErrUnknownFilter)

	_, ok := set.QueryFunc(FilterProject)
	assert.False(t, ok)
}

func TestComputeRestriction_ExactEquality(t *testing.T) {
	set := BOQFilters()

	r, err := set.ComputeRestriction(FilterSalesOrder, Values{FilterProject: "PROJ-0001"})
	require.NoError(t, err)
	require.NotNil(t, r)

	assert.True(t, r.Matches(map[string]string{"project": "PROJ-0001"}))
	for _, other := range []string{"PROJ-00010", "proj-0001", "PROJ-0001 ", "", "PROJ-000"} {
		assert.False(t, r.Matches(map[string]string{"project": other}), other)
	}
	assert.False(t, r.Matches(map[string]string{"customer": "PROJ-0001"}))
}

func TestComputeRestriction_Idempotent(t *testing.T) {
	set := BOQFilters()
	values := Values{FilterProject: "PROJ-0001"}

	first, err := set.ComputeRestriction(FilterTask, values)
	require.NoError(t, err)
	second, err := set.ComputeRestriction(FilterTask, values)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NotSame(t, first, second)
}

func TestComputeRestriction_MultipleDependencies(t *testing.T) {
	set := NewFilterSet("Timesheet Report",
		FilterDefinition{Name: "company", Type: FieldTypeLink, Options: "Company"},
		FilterDefinition{Name: "project", Type: FieldTypeLink, Options: "Project", DependsOn: []string{"company"}},
		FilterDefinition{Name: "task", Type: FieldTypeLink, Options: "Task", DependsOn: []string{"company", "project"}},
	)
	require.NoError(t, Validate(set))

	r, err := set.ComputeRestriction("task", Values{"company": "ACME"})
	require.NoError(t, err)
	assert.Nil(t, r, "a partially satisfied dependency list yields no restriction")

	r, err = set.ComputeRestriction("task", Values{"company": "ACME", "project": "PROJ-7"})
	require.NoError(t, err)
	assert.Equal(t, []Condition{
		{Field: "company", Equals: "ACME"},
		{Field: "project", Equals: "PROJ-7"},
	}, r.Conditions)
	assert.Equal(t, map[string]string{"company": "ACME", "project": "PROJ-7"}, r.Filters())
	assert.Equal(t, []string{"company", "project"}, r.Fields())
}

func TestQueryFunc(t *testing.T) {
	set := BOQFilters()

	fn, ok := set.QueryFunc(FilterSalesOrder)
	require.True(t, ok)

	assert.Nil(t, fn(Values{}))
	assert.Equal(t, map[string]string{"project": "PROJ-0001"}, fn(Values{FilterProject: "PROJ-0001"}).Filters())
}

func TestDependents(t *testing.T) {
	set := BOQFilters()

	assert.Equal(t, []string{FilterSalesOrder, FilterTask}, set.Dependents(FilterProject))
	assert.Empty(t, set.Dependents(FilterTask))
}

func TestRestriction_NilSafe(t *testing.T) {
	var r *Restriction
	assert.True(t, r.Matches(map[string]string{"project": "x"}))
	assert.Nil(t, r.Filters())
	assert.Nil(t, r.Fields())
}
