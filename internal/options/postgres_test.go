package options

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reportfilter/internal/report"
)

func TestBuildSelect(t *testing.T) {
	catalog := DefaultCatalog()
	salesOrders, err := catalog.Lookup(report.EntitySalesOrder)
	require.NoError(t, err)
	projects, err := catalog.Lookup(report.EntityProject)
	require.NoError(t, err)

	restriction := &report.Restriction{Conditions: []report.Condition{{Field: "project", Equals: "PROJ-0001"}}}

	tests := []struct {
		name     string
		entity   Entity
		query    Query
		wantSQL  string
		wantArgs []interface{}
	}{
		{
			name:     "unrestricted",
			entity:   projects,
			query:    Query{},
			wantSQL:  `SELECT "id", "label" FROM "projects" ORDER BY "id"`,
			wantArgs: nil,
		},
		{
			name:     "restricted with limit",
			entity:   salesOrders,
			query:    Query{Restriction: restriction, Limit: 20},
			wantSQL:  `SELECT "id", "label" FROM "sales_orders" WHERE "project" = $1 ORDER BY "id" LIMIT $2`,
			wantArgs: []interface{}{"PROJ-0001", 20},
		},
		{
			name:     "restricted with search",
			entity:   salesOrders,
			query:    Query{Restriction: restriction, Search: "50%_off", Limit: 5},
			wantSQL:  `SELECT "id", "label" FROM "sales_orders" WHERE "project" = $1 AND ("id" ILIKE $2 OR "label" ILIKE $2) ORDER BY "id" LIMIT $3`,
			wantArgs: []interface{}{"PROJ-0001", `%50\%\_off%`, 5},
		},
		{
			name:     "quoted identifiers",
			entity:   Entity{Table: `odd"table`, IDColumn: "id", LabelColumn: `la"bel`},
			query:    Query{},
			wantSQL:  `SELECT "id", "la""bel" FROM "odd""table" ORDER BY "id"`,
			wantArgs: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := buildSelect(tt.entity, tt.query)
			assert.Equal(t, tt.wantSQL, query)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestPostgresProvider_RejectsBeforeQuerying(t *testing.T) {
	// a nil *sql.DB would panic if the provider reached the database
	p := NewPostgresProvider(nil, nil)

	_, err := p.Query(context.Background(), "Invoice", Query{})
	assert.ErrorIs(t, err, ErrUnknownEntityType)

	_, err = p.Query(context.Background(), report.EntityProject, Query{
		Restriction: &report.Restriction{Conditions: []report.Condition{{Field: "project", Equals: "PROJ-0001"}}},
	})
	assert.ErrorIs(t, err, ErrUnknownField)
}
