package connection

import (
	"context"
	"fmt"

	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/leapstack-labs/leapdb/pkg/engine"
	"golang.org/x/sync/errgroup"
)

// schemaFetchLimit bounds concurrent TableSchema calls in GetDatabaseSchema.
const schemaFetchLimit = 4

// ListDatabases lists the databases visible to connection id.
func (r *Registry) ListDatabases(ctx context.Context, id string) ([]string, error) {
	pool, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	return pool.ListDatabases(ctx)
}

// ListTables lists base tables of connection id, narrowed by opts.
func (r *Registry) ListTables(ctx context.Context, id string, opts core.TableListOptions) ([]string, error) {
	pool, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	return pool.ListTables(ctx, opts)
}

// ListViews lists the views of connection id.
func (r *Registry) ListViews(ctx context.Context, id string) ([]string, error) {
	pool, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	return pool.ListViews(ctx)
}

// ListFunctions lists user-defined functions of connection id.
func (r *Registry) ListFunctions(ctx context.Context, id string) ([]string, error) {
	pool, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	return pool.ListFunctions(ctx)
}

// TableSchema returns the columns of table on connection id.
func (r *Registry) TableSchema(ctx context.Context, id, table string) ([]core.ColumnInfo, error) {
	pool, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	return pool.TableSchema(ctx, table)
}

// ForeignKeys returns the outgoing foreign keys of table on connection id.
func (r *Registry) ForeignKeys(ctx context.Context, id, table string) ([]core.ForeignKeyInfo, error) {
	pool, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	return pool.ForeignKeys(ctx, table)
}

// Indexes returns the indexes of table on connection id.
func (r *Registry) Indexes(ctx context.Context, id, table string) ([]core.IndexInfo, error) {
	pool, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	return pool.Indexes(ctx, table)
}

// ColumnValues returns up to limit distinct values of column in table.
func (r *Registry) ColumnValues(ctx context.Context, id, table, column string, limit int) ([]any, error) {
	pool, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	return pool.ColumnValues(ctx, table, column, limit)
}

// GetDatabaseSchema snapshots every table with its columns plus the view
// and function names. Table schemas are fetched concurrently.
func (r *Registry) GetDatabaseSchema(ctx context.Context, id string) (*core.DatabaseSchema, error) {
	pool, err := r.lookup(id)
	if err != nil {
		return nil, err
	}

	names, err := pool.ListTables(ctx, core.TableListOptions{})
	if err != nil {
		return nil, err
	}
	views, err := pool.ListViews(ctx)
	if err != nil {
		return nil, err
	}
	functions, err := pool.ListFunctions(ctx)
	if err != nil {
		return nil, err
	}

	tables := make([]core.TableInfo, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(schemaFetchLimit)
	for i, name := range names {
		g.Go(func() error {
			cols, err := pool.TableSchema(gctx, name)
			if err != nil {
				return fmt.Errorf("failed to read schema of %s: %w", name, err)
			}
			tables[i] = core.TableInfo{Name: name, Columns: cols}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &core.DatabaseSchema{Tables: tables, Views: views, Functions: functions}, nil
}

// GetTableData reads one unfiltered page.
func (r *Registry) GetTableData(ctx context.Context, id, table string, limit, offset int) (*core.TableDataResponse, error) {
	return r.GetTableDataFiltered(ctx, id, table, core.QueryOptions{Limit: limit, Offset: offset})
}

// GetTableDataFiltered reads one page shaped by opts.
func (r *Registry) GetTableDataFiltered(ctx context.Context, id, table string, opts core.QueryOptions) (*core.TableDataResponse, error) {
	pool, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	return pool.FetchTable(ctx, table, opts)
}

// ExecuteQuery runs sql verbatim and fires the notifier for schema changes.
func (r *Registry) ExecuteQuery(ctx context.Context, id, sql string) (*core.QueryResult, error) {
	pool, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	res, err := pool.ExecuteQuery(ctx, sql)
	if err != nil {
		return nil, err
	}
	if engine.IsSchemaChange(sql) {
		r.schemaChanged(ctx, id)
	}
	return res, nil
}

// ExplainQuery returns the engine's plan for sql on connection id.
func (r *Registry) ExplainQuery(ctx context.Context, id, sql string) (*core.ExplainResult, error) {
	pool, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	return pool.Explain(ctx, sql)
}

// ExecuteDDL runs a schema statement and fires the notifier on success.
func (r *Registry) ExecuteDDL(ctx context.Context, id, sql string) error {
	pool, err := r.lookup(id)
	if err != nil {
		return err
	}
	if err := pool.ExecuteDDL(ctx, sql); err != nil {
		return err
	}
	r.schemaChanged(ctx, id)
	return nil
}

// ExecuteChanges applies a pending-change batch. Unknown ids are NotFound
// here rather than not connected.
func (r *Registry) ExecuteChanges(ctx context.Context, id, table, pkColumn string, changes []core.PendingChange) (*core.ExecuteResult, error) {
	pool, ok := r.Pool(id)
	if !ok {
		return nil, &core.NotFoundError{Resource: "connection", ID: id}
	}
	if !pool.Kind().SupportsChanges() {
		return nil, core.QueryErrorf("Execute changes %w", core.ErrNotSupported)
	}
	return pool.ApplyChanges(ctx, table, pkColumn, changes)
}
