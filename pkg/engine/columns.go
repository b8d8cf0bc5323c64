package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapdb/pkg/core"
)

// TableColumns returns the column names of table in declaration order.
// A missing table is a QueryError.
func (p *SQLPool) TableColumns(ctx context.Context, table string) ([]string, error) {
	//nolint:gosec // identifier is quoted by the dialect
	q := fmt.Sprintf("SELECT * FROM %s WHERE 1=0", p.Dialect.QuoteIdentifier(table))
	rows, err := p.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, core.NewQueryError(err)
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, core.NewQueryError(err)
	}
	return cols, nil
}

// CheckColumns rejects any name in names that is not a column of table.
// SQLite reads an unknown double-quoted identifier as a string literal, so
// references are resolved here instead of trusting the engine to fail.
// Empty names are ignored.
func (p *SQLPool) CheckColumns(ctx context.Context, table string, names ...string) error {
	if !hasName(names) {
		return nil
	}
	cols, err := p.TableColumns(ctx, table)
	if err != nil {
		return err
	}

	// Quoted identifiers are case-sensitive only on Postgres.
	exact := p.Dialect.Kind == core.KindPostgres
	for _, name := range names {
		if name == "" || containsColumn(cols, name, exact) {
			continue
		}
		return core.QueryErrorf("unknown column %q in table %q", name, table)
	}
	return nil
}

func containsColumn(cols []string, name string, exact bool) bool {
	for _, c := range cols {
		if c == name || (!exact && strings.EqualFold(c, name)) {
			return true
		}
	}
	return false
}

func hasName(names []string) bool {
	for _, n := range names {
		if n != "" {
			return true
		}
	}
	return false
}

// referencedColumns lists every column opts refers to.
func referencedColumns(opts core.QueryOptions) []string {
	names := make([]string, 0, len(opts.Filters)+len(opts.SelectedColumns)+2)
	for _, f := range opts.Filters {
		names = append(names, f.Column)
	}
	if opts.Sort != nil {
		names = append(names, opts.Sort.Column)
	}
	if opts.Cursor != nil {
		names = append(names, opts.Cursor.Column)
	}
	return append(names, opts.SelectedColumns...)
}
