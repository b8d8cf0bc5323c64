package engine

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/leapstack-labs/leapdb/pkg/dialect"
	"github.com/leapstack-labs/leapdb/pkg/mutation"
)

// SQLPool provides the database/sql behaviour shared by relational engines.
// Embed it in concrete engines to get Close, Ping, FetchTable, ColumnValues,
// ExecuteQuery, ExecuteDDL and ApplyChanges; engines add their own catalog
// queries and Explain.
type SQLPool struct {
	DB      *sqlx.DB
	Dialect *dialect.Dialect
	Cfg     core.ConnectionConfig
	Logger  *slog.Logger
}

// NewSQLPool wraps an opened *sql.DB.
func NewSQLPool(db *sql.DB, driverName string, d *dialect.Dialect, cfg core.ConnectionConfig, logger *slog.Logger) SQLPool {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return SQLPool{
		DB:      sqlx.NewDb(db, driverName),
		Dialect: d,
		Cfg:     cfg,
		Logger:  logger,
	}
}

// ApplyPoolOptions bounds the database/sql pool to the requested size.
func ApplyPoolOptions(db *sql.DB, opts OpenOptions) {
	db.SetMaxOpenConns(opts.MaxConns)
	db.SetMaxIdleConns(opts.MaxConns)
}

// Kind returns the configured engine kind.
func (p *SQLPool) Kind() core.EngineKind {
	return p.Cfg.Kind
}

// Close closes the database connection pool.
func (p *SQLPool) Close() error {
	if p.DB != nil {
		p.Logger.Debug("closing database connection", slog.String("connection", p.Cfg.ID))
		return p.DB.Close()
	}
	return nil
}

// Ping runs SELECT 1.
func (p *SQLPool) Ping(ctx context.Context) error {
	if p.DB == nil {
		return fmt.Errorf("database connection not established")
	}
	var one int
	if err := p.DB.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("failed to ping: %w", err)
	}
	return nil
}

// IsConnected returns true if the database connection is established.
func (p *SQLPool) IsConnected() bool {
	return p.DB != nil
}

// ExecuteQuery runs sqlStr verbatim. Columns are empty when no row is returned.
func (p *SQLPool) ExecuteQuery(ctx context.Context, sqlStr string) (*core.QueryResult, error) {
	if p.DB == nil {
		return nil, core.NewConnectionError(p.Cfg.ID, core.ErrNotConnected)
	}
	//nolint:rowserrcheck // rows.Err() is checked by ScanRows
	rows, err := p.DB.QueryContext(ctx, sqlStr)
	if err != nil {
		return nil, core.NewQueryError(err)
	}
	defer func() { _ = rows.Close() }()

	cols, data, err := ScanRows(rows)
	if err != nil {
		return nil, core.NewQueryError(err)
	}
	if len(data) == 0 {
		cols = []string{}
	}
	return &core.QueryResult{Columns: cols, Rows: data, RowCount: len(data)}, nil
}

// ExecuteDDL executes a schema-changing statement.
func (p *SQLPool) ExecuteDDL(ctx context.Context, sqlStr string) error {
	if p.DB == nil {
		return core.NewConnectionError(p.Cfg.ID, core.ErrNotConnected)
	}
	if p.Cfg.ReadOnly {
		return core.NewQueryError(core.ErrReadOnly)
	}
	if _, err := p.DB.ExecContext(ctx, sqlStr); err != nil {
		return core.NewQueryError(err)
	}
	return nil
}

// ColumnValues returns up to limit distinct values of column, in engine order.
func (p *SQLPool) ColumnValues(ctx context.Context, table, column string, limit int) ([]any, error) {
	if limit <= 0 {
		limit = core.DefaultLimit
	}
	col := p.Dialect.QuoteIdentifier(column)
	//nolint:gosec // identifiers are quoted by the dialect
	q := fmt.Sprintf("SELECT DISTINCT %s FROM %s ORDER BY %s LIMIT %d", col, p.Dialect.QuoteIdentifier(table), col, limit)

	rows, err := p.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, core.NewQueryError(err)
	}
	defer func() { _ = rows.Close() }()

	_, data, err := ScanRows(rows)
	if err != nil {
		return nil, core.NewQueryError(err)
	}
	values := make([]any, 0, len(data))
	for _, row := range data {
		values = append(values, row[0])
	}
	return values, nil
}

// ApplyChanges checks the primary-key and change columns against table, then
// runs the batch in one transaction; see mutation.Execute.
func (p *SQLPool) ApplyChanges(ctx context.Context, table, pkColumn string, changes []core.PendingChange) (*core.ExecuteResult, error) {
	if p.Cfg.ReadOnly {
		return nil, core.NewQueryError(core.ErrReadOnly)
	}

	names := []string{pkColumn}
	for _, ch := range changes {
		names = append(names, ch.Column)
	}
	if err := p.CheckColumns(ctx, table, names...); err != nil {
		return nil, err
	}

	p.Logger.Debug("applying changes",
		slog.String("connection", p.Cfg.ID),
		slog.String("table", table),
		slog.Int("changes", len(changes)))
	return mutation.Execute(ctx, p.DB, p.Dialect, table, pkColumn, changes)
}

// QueryStrings runs q and collects the first column of every row as text.
func (p *SQLPool) QueryStrings(ctx context.Context, q string, args ...any) ([]string, error) {
	var out []string
	if err := p.DB.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, core.NewQueryError(err)
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}
