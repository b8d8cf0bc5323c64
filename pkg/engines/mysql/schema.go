package mysql

import (
	"context"

	"github.com/leapstack-labs/leapdb/pkg/core"
)

const columnsQuery = `
	SELECT
		COLUMN_NAME AS name,
		DATA_TYPE AS data_type,
		IS_NULLABLE AS is_nullable,
		CHARACTER_MAXIMUM_LENGTH AS max_length,
		COLUMN_KEY = 'PRI' AS is_primary_key
	FROM information_schema.COLUMNS
	WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ?
	ORDER BY ORDINAL_POSITION
`

const foreignKeysQuery = `
	SELECT
		CONSTRAINT_NAME AS constraint_name,
		COLUMN_NAME AS column_name,
		REFERENCED_TABLE_NAME AS referenced_table,
		REFERENCED_COLUMN_NAME AS referenced_column
	FROM information_schema.KEY_COLUMN_USAGE
	WHERE TABLE_NAME = ?
		AND REFERENCED_TABLE_NAME IS NOT NULL
		AND TABLE_SCHEMA = DATABASE()
	ORDER BY CONSTRAINT_NAME
`

const indexesQuery = `
	SELECT
		INDEX_NAME AS name,
		GROUP_CONCAT(COLUMN_NAME ORDER BY SEQ_IN_INDEX) AS columns,
		MIN(NON_UNIQUE) = 0 AS is_unique,
		INDEX_TYPE AS index_type
	FROM information_schema.STATISTICS
	WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ?
	GROUP BY INDEX_NAME, INDEX_TYPE
	ORDER BY INDEX_NAME
`

func (p *Pool) ListDatabases(ctx context.Context) ([]string, error) {
	return p.QueryStrings(ctx, "SHOW DATABASES")
}

// ListTables lists base tables of the current database.
func (p *Pool) ListTables(ctx context.Context, opts core.TableListOptions) ([]string, error) {
	return p.ListNames(ctx,
		"SELECT TABLE_NAME FROM information_schema.TABLES WHERE TABLE_SCHEMA = DATABASE() AND TABLE_TYPE = 'BASE TABLE'",
		"TABLE_NAME", opts)
}

func (p *Pool) ListViews(ctx context.Context) ([]string, error) {
	return p.QueryStrings(ctx,
		"SELECT TABLE_NAME FROM information_schema.VIEWS WHERE TABLE_SCHEMA = DATABASE() ORDER BY TABLE_NAME")
}

func (p *Pool) ListFunctions(ctx context.Context) ([]string, error) {
	return p.QueryStrings(ctx,
		"SELECT ROUTINE_NAME FROM information_schema.ROUTINES WHERE ROUTINE_SCHEMA = DATABASE() ORDER BY ROUTINE_NAME")
}

func (p *Pool) TableSchema(ctx context.Context, table string) ([]core.ColumnInfo, error) {
	return p.SelectColumns(ctx, columnsQuery, table)
}

func (p *Pool) ForeignKeys(ctx context.Context, table string) ([]core.ForeignKeyInfo, error) {
	return p.SelectForeignKeys(ctx, foreignKeysQuery, table)
}

// Indexes groups information_schema.STATISTICS rows by index.
func (p *Pool) Indexes(ctx context.Context, table string) ([]core.IndexInfo, error) {
	return p.SelectIndexes(ctx, indexesQuery, table)
}
