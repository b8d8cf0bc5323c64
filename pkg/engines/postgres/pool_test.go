package postgres

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/leapstack-labs/leapdb/internal/testutil"
	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/leapstack-labs/leapdb/pkg/dialect"
	"github.com/leapstack-labs/leapdb/pkg/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPostgresDSN(t *testing.T) {
	tests := []struct {
		name     string
		config   core.ConnectionConfig
		params   Params
		expected string
	}{
		{
			name: "basic connection",
			config: core.ConnectionConfig{
				Host:     "localhost",
				Port:     5432,
				Database: "testdb",
				Username: "user",
				Password: "pass",
			},
			expected: "host=localhost port=5432 dbname=testdb sslmode=disable user=user password=pass",
		},
		{
			name: "with ssl mode from params",
			config: core.ConnectionConfig{
				Host:     "prod.example.com",
				Port:     5432,
				Database: "proddb",
				Username: "admin",
				SSLMode:  "prefer",
			},
			params:   Params{SSLMode: "require"},
			expected: "host=prod.example.com port=5432 dbname=proddb sslmode=require user=admin",
		},
		{
			name: "with ssl mode from connection",
			config: core.ConnectionConfig{
				Database: "mydb",
				SSLMode:  "verify-full",
			},
			expected: "host=localhost port=5432 dbname=mydb sslmode=verify-full",
		},
		{
			name: "defaults",
			config: core.ConnectionConfig{
				Database: "mydb",
			},
			expected: "host=localhost port=5432 dbname=mydb sslmode=disable",
		},
		{
			name: "password with spaces and quotes",
			config: core.ConnectionConfig{
				Host:     "db.example.com",
				Port:     5433,
				Database: "analytics",
				Username: "analyst",
				Password: `it's a secret`,
			},
			params:   Params{ApplicationName: "leapdb"},
			expected: `host=db.example.com port=5433 dbname=analytics sslmode=disable user=analyst password='it\'s a secret' application_name=leapdb`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dsn := buildPostgresDSN(tt.config, tt.params)
			assert.Equal(t, tt.expected, dsn)
		})
	}
}

func TestParseParams(t *testing.T) {
	p, err := ParseParams(core.ConnectionConfig{Params: map[string]any{"ssl_mode": "require", "application_name": "cli"}})
	require.NoError(t, err)
	assert.Equal(t, Params{SSLMode: "require", ApplicationName: "cli"}, p)
}

func newMockPool(t *testing.T) (*Pool, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	p := &Pool{SQLPool: engine.NewSQLPool(db, "pgx", dialect.Postgres,
		core.ConnectionConfig{ID: "pg", Kind: core.KindPostgres}, testutil.NewTestLogger(t))}
	t.Cleanup(func() { _ = p.Close() })
	return p, mock
}

func TestPool_ListTables(t *testing.T) {
	p, mock := newMockPool(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT tablename FROM pg_tables WHERE schemaname = 'public' AND LOWER(tablename) LIKE $1 ESCAPE '!' ORDER BY tablename LIMIT 10 OFFSET 0")).
		WithArgs("%user%").
		WillReturnRows(sqlmock.NewRows([]string{"tablename"}).AddRow("user_roles").AddRow("users"))

	got, err := p.ListTables(context.Background(), core.TableListOptions{Search: "USER", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"user_roles", "users"}, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPool_TableSchema(t *testing.T) {
	p, mock := newMockPool(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM information_schema.columns c")).
		WithArgs("users").
		WillReturnRows(sqlmock.NewRows([]string{"name", "data_type", "is_nullable", "max_length", "is_primary_key"}).
			AddRow("id", "integer", "NO", nil, true).
			AddRow("email", "character varying", "YES", int64(255), false))

	cols, err := p.TableSchema(context.Background(), "users")
	require.NoError(t, err)
	require.Len(t, cols, 2)
	assert.Equal(t, core.ColumnInfo{Name: "id", DataType: "integer", IsPrimaryKey: true}, cols[0])
	assert.True(t, cols[1].Nullable)
	require.NotNil(t, cols[1].MaxLength)
	assert.Equal(t, int64(255), *cols[1].MaxLength)
}

func TestPool_Indexes(t *testing.T) {
	p, mock := newMockPool(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM pg_index ix")).
		WithArgs("users").
		WillReturnRows(sqlmock.NewRows([]string{"name", "columns", "is_unique", "index_type"}).
			AddRow("users_pkey", "id", true, "btree").
			AddRow("idx_users_name", "last,first", false, "btree"))

	idx, err := p.Indexes(context.Background(), "users")
	require.NoError(t, err)
	assert.Equal(t, []core.IndexInfo{
		{Name: "users_pkey", Columns: []string{"id"}, Unique: true, IndexType: "btree"},
		{Name: "idx_users_name", Columns: []string{"last", "first"}, IndexType: "btree"},
	}, idx)
}

func TestPool_Explain(t *testing.T) {
	p, mock := newMockPool(t)

	mock.ExpectQuery(regexp.QuoteMeta("EXPLAIN ANALYZE SELECT 1")).
		WillReturnRows(sqlmock.NewRows([]string{"QUERY PLAN"}).
			AddRow("Result  (cost=0.00..0.01 rows=1 width=4)").
			AddRow("Planning Time: 0.010 ms"))

	res, err := p.Explain(context.Background(), "SELECT 1")
	require.NoError(t, err)
	assert.Len(t, res.Plan, 2)
}

func TestOpen_Registered(t *testing.T) {
	assert.True(t, engine.IsRegistered(core.KindPostgres))
	assert.True(t, engine.IsRegistered("cockroachdb"))
}
