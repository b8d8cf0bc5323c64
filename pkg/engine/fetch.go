package engine

import (
	"context"
	"log/slog"

	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/leapstack-labs/leapdb/pkg/query"
)

// FetchTable compiles opts for the pool's dialect, runs the page query and,
// unless SkipCount is set, the COUNT query over the same filters. Every column
// named in opts must exist in table.
func (p *SQLPool) FetchTable(ctx context.Context, table string, opts core.QueryOptions) (*core.TableDataResponse, error) {
	if err := p.CheckColumns(ctx, table, referencedColumns(opts)...); err != nil {
		return nil, err
	}

	compiled, err := query.Compile(p.Dialect, table, opts)
	if err != nil {
		return nil, core.NewQueryError(err)
	}

	p.Logger.Debug("fetching table data",
		slog.String("connection", p.Cfg.ID),
		slog.String("sql", compiled.SelectSQL))

	rows, err := p.DB.QueryContext(ctx, compiled.SelectSQL, compiled.SelectArgs...)
	if err != nil {
		return nil, core.NewQueryError(err)
	}
	defer func() { _ = rows.Close() }()

	cols, data, err := ScanRows(rows)
	if err != nil {
		return nil, core.NewQueryError(err)
	}

	resp := &core.TableDataResponse{Columns: cols, Rows: data}

	if !opts.SkipCount {
		var total int64
		if err := p.DB.QueryRowContext(ctx, compiled.CountSQL, compiled.CountArgs...).Scan(&total); err != nil {
			return nil, core.NewQueryError(err)
		}
		resp.TotalCount = &total
	}

	if opts.Cursor != nil {
		resp.NextCursor = NextCursor(cols, data, opts.Cursor.Column)
	}
	return resp, nil
}

// NextCursor returns the cursor column's value in the last row, or nil for
// an empty page or a projection that omits the column.
func NextCursor(cols []string, rows [][]any, column string) any {
	if len(rows) == 0 {
		return nil
	}
	for i, c := range cols {
		if c == column {
			return rows[len(rows)-1][i]
		}
	}
	return nil
}
