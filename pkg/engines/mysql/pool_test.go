package mysql

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/leapstack-labs/leapdb/internal/testutil"
	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/leapstack-labs/leapdb/pkg/dialect"
	"github.com/leapstack-labs/leapdb/pkg/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  core.ConnectionConfig
		params  Params
		addr    string
		tls     string
		charset string
	}{
		{
			name:   "defaults",
			config: core.ConnectionConfig{Database: "app", Username: "root"},
			addr:   "localhost:3306",
			tls:    "false",
		},
		{
			name:   "custom host and required ssl",
			config: core.ConnectionConfig{Host: "db.internal", Port: 3307, Database: "app", SSLMode: "require"},
			addr:   "db.internal:3307",
			tls:    "skip-verify",
		},
		{
			name:    "params override connection ssl mode",
			config:  core.ConnectionConfig{Host: "db", Database: "app", SSLMode: "require"},
			params:  Params{SSLMode: "verify-full", Charset: "utf8mb4"},
			addr:    "db:3306",
			tls:     "true",
			charset: "utf8mb4",
		},
		{
			name:   "ipv6 host",
			config: core.ConnectionConfig{Host: "::1", Database: "app", SSLMode: "prefer"},
			addr:   "[::1]:3306",
			tls:    "preferred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mc := buildConfig(tt.config, tt.params, 15*time.Second)
			assert.Equal(t, tt.addr, mc.Addr)
			assert.Equal(t, tt.tls, mc.TLSConfig)
			assert.True(t, mc.ParseTime)
			assert.Equal(t, 15*time.Second, mc.Timeout)
			assert.Equal(t, tt.charset, mc.Params["charset"])

			// The DSN must survive the driver's own parser.
			parsed, err := mysql.ParseDSN(mc.FormatDSN())
			require.NoError(t, err)
			assert.Equal(t, tt.addr, parsed.Addr)
			assert.Equal(t, tt.config.Database, parsed.DBName)
			assert.Equal(t, tt.config.Username, parsed.User)
		})
	}
}

func newMockPool(t *testing.T) (*Pool, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	p := &Pool{SQLPool: engine.NewSQLPool(db, "mysql", dialect.MySQL,
		core.ConnectionConfig{ID: "my", Kind: core.KindMySQL}, testutil.NewTestLogger(t))}
	t.Cleanup(func() { _ = p.Close() })
	return p, mock
}

func TestPool_Explain(t *testing.T) {
	p, mock := newMockPool(t)

	mock.ExpectQuery(regexp.QuoteMeta("EXPLAIN SELECT * FROM users")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "select_type", "table", "key"}).
			AddRow(int64(1), "SIMPLE", "users", nil))

	res, err := p.Explain(context.Background(), "SELECT * FROM users")
	require.NoError(t, err)
	assert.Equal(t, []string{"id=1, select_type=SIMPLE, table=users, key=NULL"}, res.Plan)
}

func TestPool_ListTables_OffsetWithoutLimit(t *testing.T) {
	p, mock := newMockPool(t)

	mock.ExpectQuery(regexp.QuoteMeta("AND TABLE_TYPE = 'BASE TABLE' ORDER BY TABLE_NAME")).
		WillReturnRows(sqlmock.NewRows([]string{"TABLE_NAME"}).AddRow("a").AddRow("b").AddRow("c"))

	got, err := p.ListTables(context.Background(), core.TableListOptions{Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, got)
}

func TestPool_ForeignKeys(t *testing.T) {
	p, mock := newMockPool(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM information_schema.KEY_COLUMN_USAGE")).
		WithArgs("orders").
		WillReturnRows(sqlmock.NewRows([]string{"constraint_name", "column_name", "referenced_table", "referenced_column"}).
			AddRow("fk_orders_user", "user_id", "users", "id"))

	fks, err := p.ForeignKeys(context.Background(), "orders")
	require.NoError(t, err)
	assert.Equal(t, []core.ForeignKeyInfo{{
		ConstraintName: "fk_orders_user", ColumnName: "user_id", ReferencedTable: "users", ReferencedColumn: "id",
	}}, fks)
}

func TestPool_ApplyChangesUsesBackticks(t *testing.T) {
	p, mock := newMockPool(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `orders` WHERE 1=0")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `orders` SET `status` = 'shipped' WHERE `id` = 10")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	res, err := p.ApplyChanges(context.Background(), "orders", "id", []core.PendingChange{
		{RowID: "10", Column: "status", NewValue: "shipped", ChangeType: core.ChangeUpdate},
	})
	require.NoError(t, err)
	assert.True(t, res.Success)
	require.NoError(t, mock.ExpectationsWereMet())
}
