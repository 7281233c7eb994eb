//go:build integration

package options

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	postgresmodule "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"reportfilter/internal/db"
	"reportfilter/internal/report"
)

func setupPostgres(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	container, err := postgresmodule.Run(ctx, "postgres:15",
		postgresmodule.WithDatabase("reports_test"),
		postgresmodule.WithUsername("test_user"),
		postgresmodule.WithPassword("test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	conn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	sqlDB, err := sql.Open("postgres", conn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, sqlDB.PingContext(ctx))

	_, err = db.Migrate(sqlDB)
	require.NoError(t, err)

	_, err = sqlDB.ExecContext(ctx, `
		INSERT INTO projects (id, label) VALUES ('PROJ-0001', 'Tower A'), ('PROJ-0002', 'Tower B');
		INSERT INTO sales_orders (id, label, project) VALUES
			('SO-0001', 'Cement', 'PROJ-0001'),
			('SO-0002', 'Steel', 'PROJ-0002'),
			('SO-0003', 'Glass 100%', 'PROJ-0001');
		INSERT INTO tasks (id, label, project) VALUES
			('TASK-0001', 'Foundation', 'PROJ-0001'),
			('TASK-0002', 'Roofing', 'proj-0001');
	`)
	require.NoError(t, err)

	return sqlDB
}

func TestPostgresProvider_Integration(t *testing.T) {
	p := NewPostgresProvider(setupPostgres(t), nil)
	ctx := context.Background()

	query := func(entityType string, q Query) []string {
		seq, err := p.Query(ctx, entityType, q)
		require.NoError(t, err)
		return values(t, seq, 0)
	}

	assert.Equal(t, []string{"SO-0001", "SO-0002", "SO-0003"}, query(report.EntitySalesOrder, Query{}))
	assert.Equal(t, []string{"SO-0001", "SO-0003"}, query(report.EntitySalesOrder, Query{Restriction: projectRestriction("PROJ-0001")}))
	assert.Equal(t, []string{"TASK-0001"}, query(report.EntityTask, Query{Restriction: projectRestriction("PROJ-0001")}))
	assert.Equal(t, []string{}, query(report.EntityTask, Query{Restriction: projectRestriction("PROJ-9999")}))
	assert.Equal(t, []string{"SO-0003"}, query(report.EntitySalesOrder, Query{Search: "100%"}))
	assert.Equal(t, []string{"PROJ-0001"}, query(report.EntityProject, Query{Limit: 1}))
}
