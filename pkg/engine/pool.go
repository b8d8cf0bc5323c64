// Package engine defines the EnginePool contract shared by every backend and
// the database/sql machinery reused by the relational engines.
//
// Every engine implements the full Pool interface. Engines that cannot serve a
// capability degrade: catalog listings return empty results, while data and
// mutation operations return an error wrapping core.ErrNotSupported.
// Concrete engines live in pkg/engines/ subdirectories and register an Opener
// in their init() functions.
package engine

import (
	"context"

	"github.com/leapstack-labs/leapdb/pkg/core"
)

// SchemaCapable lists catalog objects.
type SchemaCapable interface {
	// ListDatabases returns the database names visible to the connection.
	ListDatabases(ctx context.Context) ([]string, error)

	// ListTables returns table names (keys for Redis, collections for MongoDB).
	ListTables(ctx context.Context, opts core.TableListOptions) ([]string, error)

	ListViews(ctx context.Context) ([]string, error)
	ListFunctions(ctx context.Context) ([]string, error)

	// TableSchema returns fresh column metadata; it is never cached.
	TableSchema(ctx context.Context, table string) ([]core.ColumnInfo, error)

	ForeignKeys(ctx context.Context, table string) ([]core.ForeignKeyInfo, error)
	Indexes(ctx context.Context, table string) ([]core.IndexInfo, error)
}

// QueryCapable reads data and runs caller-supplied statements.
type QueryCapable interface {
	// FetchTable runs a compiled, paginated read of one table.
	FetchTable(ctx context.Context, table string, opts core.QueryOptions) (*core.TableDataResponse, error)

	// ColumnValues returns up to limit distinct values of column.
	ColumnValues(ctx context.Context, table, column string, limit int) ([]any, error)

	// ExecuteQuery runs sql verbatim and maps the result to the tabular model.
	ExecuteQuery(ctx context.Context, sql string) (*core.QueryResult, error)

	// Explain returns the engine's plan for sql.
	Explain(ctx context.Context, sql string) (*core.ExplainResult, error)

	// ExecuteDDL runs a schema-changing statement.
	ExecuteDDL(ctx context.Context, sql string) error
}

// TransactionCapable applies pending-change batches atomically.
type TransactionCapable interface {
	ApplyChanges(ctx context.Context, table, pkColumn string, changes []core.PendingChange) (*core.ExecuteResult, error)
}

// Pool is one live native pool or client for a logical connection.
// Implementations are safe for concurrent use; per-connection safety is
// delegated to the wrapped driver pool.
type Pool interface {
	SchemaCapable
	QueryCapable
	TransactionCapable

	// Kind returns the engine kind this pool was opened for.
	Kind() core.EngineKind

	// Ping issues the engine's liveness check.
	Ping(ctx context.Context) error

	// Close releases the pool. Closing a relational pool drains its connections.
	Close() error
}

// Unsupported returns the error reported for an operation kind cannot serve.
func Unsupported(kind core.EngineKind, op string) error {
	return core.NewQueryError(fmtUnsupported(kind, op))
}
