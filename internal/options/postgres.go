package options

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"reportfilter/internal/constants"
)

type PostgresProvider struct {
	db      *sql.DB
	catalog *Catalog
}

func NewPostgresProvider(db *sql.DB, catalog *Catalog) *PostgresProvider {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &PostgresProvider{db: db, catalog: catalog}
}

func (p *PostgresProvider) Name() string {
	return constants.SourceTypePostgreSQL
}

func (p *PostgresProvider) Query(ctx context.Context, entityType string, q Query) (Sequence, error) {
	entity, err := p.catalog.resolve(entityType, q)
	if err != nil {
		return nil, err
	}

	query, args := buildSelect(entity, q)

	seq := func(yield func(Option, error) bool) {
		rows, err := p.db.QueryContext(ctx, query, args...)
		if err != nil {
			yield(Option{}, fmt.Errorf("query %s: %w", entity.Table, err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var opt Option
			var label sql.NullString
			if err := rows.Scan(&opt.Value, &label); err != nil {
				yield(Option{}, fmt.Errorf("scan %s: %w", entity.Table, err))
				return
			}
			opt.Label = label.String
			if !yield(opt, nil) {
				return
			}
		}

		if err := rows.Err(); err != nil {
			yield(Option{}, fmt.Errorf("iterate %s: %w", entity.Table, err))
		}
	}

	return observe(seq, entityType, p.Name()), nil
}

// buildSelect renders the lookup. Identifiers come from the catalog only;
// every value is a bind parameter.
func buildSelect(entity Entity, q Query) (string, []interface{}) {
	var (
		sb    strings.Builder
		args  []interface{}
		where []string
	)

	if q.Restriction != nil {
		for _, c := range q.Restriction.Conditions {
			args = append(args, c.Equals)
			where = append(where, fmt.Sprintf("%s = $%d", pq.QuoteIdentifier(c.Field), len(args)))
		}
	}

	if q.Search != "" {
		args = append(args, "%"+escapeLike(q.Search)+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(%s ILIKE $%d OR %s ILIKE $%d)",
			pq.QuoteIdentifier(entity.IDColumn), n, pq.QuoteIdentifier(entity.LabelColumn), n))
	}

	fmt.Fprintf(&sb, "SELECT %s, %s FROM %s",
		pq.QuoteIdentifier(entity.IDColumn), pq.QuoteIdentifier(entity.LabelColumn), pq.QuoteIdentifier(entity.Table))
	if len(where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}
	fmt.Fprintf(&sb, " ORDER BY %s", pq.QuoteIdentifier(entity.IDColumn))

	if q.Limit > 0 {
		args = append(args, q.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}

	return sb.String(), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
