package postgres

import (
	"context"

	"github.com/leapstack-labs/leapdb/pkg/core"
)

const columnsQuery = `
	SELECT
		c.column_name AS name,
		c.data_type AS data_type,
		c.is_nullable AS is_nullable,
		c.character_maximum_length AS max_length,
		EXISTS (
			SELECT 1
			FROM information_schema.table_constraints tc
			JOIN information_schema.key_column_usage kcu
				ON tc.constraint_name = kcu.constraint_name
				AND tc.table_schema = kcu.table_schema
			WHERE tc.constraint_type = 'PRIMARY KEY'
				AND tc.table_schema = c.table_schema
				AND tc.table_name = c.table_name
				AND kcu.column_name = c.column_name
		) AS is_primary_key
	FROM information_schema.columns c
	WHERE c.table_schema = 'public' AND c.table_name = ?
	ORDER BY c.ordinal_position
`

const foreignKeysQuery = `
	SELECT
		tc.constraint_name AS constraint_name,
		kcu.column_name AS column_name,
		ccu.table_name AS referenced_table,
		ccu.column_name AS referenced_column
	FROM information_schema.table_constraints AS tc
	JOIN information_schema.key_column_usage AS kcu
		ON tc.constraint_name = kcu.constraint_name
		AND tc.table_schema = kcu.table_schema
	JOIN information_schema.constraint_column_usage AS ccu
		ON ccu.constraint_name = tc.constraint_name
		AND ccu.table_schema = tc.table_schema
	WHERE tc.constraint_type = 'FOREIGN KEY'
		AND tc.table_name = ?
		AND tc.table_schema = 'public'
	ORDER BY tc.constraint_name
`

const indexesQuery = `
	SELECT
		i.relname AS name,
		array_to_string(array_agg(a.attname ORDER BY array_position(ix.indkey, a.attnum)), ',') AS columns,
		ix.indisunique AS is_unique,
		am.amname AS index_type
	FROM pg_index ix
	JOIN pg_class t ON t.oid = ix.indrelid
	JOIN pg_class i ON i.oid = ix.indexrelid
	JOIN pg_namespace n ON n.oid = t.relnamespace
	JOIN pg_am am ON am.oid = i.relam
	JOIN pg_attribute a ON a.attrelid = t.oid AND a.attnum = ANY(ix.indkey)
	WHERE t.relname = ? AND n.nspname = 'public'
	GROUP BY i.relname, ix.indisunique, am.amname
	ORDER BY i.relname
`

// ListDatabases lists non-template databases.
func (p *Pool) ListDatabases(ctx context.Context) ([]string, error) {
	return p.QueryStrings(ctx, "SELECT datname FROM pg_database WHERE datistemplate = false ORDER BY datname")
}

// ListTables lists tables in the public schema.
func (p *Pool) ListTables(ctx context.Context, opts core.TableListOptions) ([]string, error) {
	return p.ListNames(ctx, "SELECT tablename FROM pg_tables WHERE schemaname = 'public'", "tablename", opts)
}

func (p *Pool) ListViews(ctx context.Context) ([]string, error) {
	return p.QueryStrings(ctx, "SELECT viewname FROM pg_views WHERE schemaname = 'public' ORDER BY viewname")
}

func (p *Pool) ListFunctions(ctx context.Context) ([]string, error) {
	return p.QueryStrings(ctx,
		"SELECT DISTINCT routine_name FROM information_schema.routines WHERE routine_schema = 'public' ORDER BY routine_name")
}

// TableSchema reads information_schema.columns joined with the primary key.
func (p *Pool) TableSchema(ctx context.Context, table string) ([]core.ColumnInfo, error) {
	return p.SelectColumns(ctx, columnsQuery, table)
}

func (p *Pool) ForeignKeys(ctx context.Context, table string) ([]core.ForeignKeyInfo, error) {
	return p.SelectForeignKeys(ctx, foreignKeysQuery, table)
}

func (p *Pool) Indexes(ctx context.Context, table string) ([]core.IndexInfo, error) {
	return p.SelectIndexes(ctx, indexesQuery, table)
}
