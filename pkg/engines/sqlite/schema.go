package sqlite

import (
	"context"

	"github.com/leapstack-labs/leapdb/pkg/core"
)

const columnsQuery = `
	SELECT
		name AS name,
		type AS data_type,
		CASE WHEN "notnull" = 0 THEN 'YES' ELSE 'NO' END AS is_nullable,
		NULL AS max_length,
		pk > 0 AS is_primary_key
	FROM pragma_table_info(?)
	ORDER BY cid
`

const foreignKeysQuery = `
	SELECT
		'fk_' || id AS constraint_name,
		"from" AS column_name,
		"table" AS referenced_table,
		COALESCE("to", '') AS referenced_column
	FROM pragma_foreign_key_list(?)
	ORDER BY id, seq
`

const indexesQuery = `
	SELECT
		il.name AS name,
		group_concat(ii.name, ',') AS columns,
		il."unique" AS is_unique,
		NULL AS index_type
	FROM pragma_index_list(?) AS il
	LEFT JOIN pragma_index_info(il.name) AS ii
	GROUP BY il.name, il."unique"
	ORDER BY il.name
`

// ListDatabases always reports the main schema.
func (p *Pool) ListDatabases(context.Context) ([]string, error) {
	return []string{"main"}, nil
}

func (p *Pool) ListTables(ctx context.Context, opts core.TableListOptions) ([]string, error) {
	return p.ListNames(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'",
		"name", opts)
}

func (p *Pool) ListViews(ctx context.Context) ([]string, error) {
	return p.QueryStrings(ctx, "SELECT name FROM sqlite_master WHERE type = 'view' ORDER BY name")
}

// ListFunctions is empty: SQLite has no stored routines.
func (p *Pool) ListFunctions(context.Context) ([]string, error) {
	return []string{}, nil
}

func (p *Pool) TableSchema(ctx context.Context, table string) ([]core.ColumnInfo, error) {
	return p.SelectColumns(ctx, columnsQuery, table)
}

// ForeignKeys names each constraint fk_{id}; SQLite keeps no constraint names.
func (p *Pool) ForeignKeys(ctx context.Context, table string) ([]core.ForeignKeyInfo, error) {
	return p.SelectForeignKeys(ctx, foreignKeysQuery, table)
}

func (p *Pool) Indexes(ctx context.Context, table string) ([]core.IndexInfo, error) {
	return p.SelectIndexes(ctx, indexesQuery, table)
}
