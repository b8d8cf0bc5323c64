package redis

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/leapstack-labs/leapdb/internal/testutil"
	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/leapstack-labs/leapdb/pkg/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startRedis(t *testing.T) (*miniredis.Miniredis, engine.Pool) {
	t.Helper()
	srv := miniredis.RunT(t)

	host, portStr, err := net.SplitHostPort(srv.Addr())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	pool, err := Open(context.Background(), core.ConnectionConfig{
		ID:   "cache",
		Kind: core.KindRedis,
		Host: host,
		Port: port,
	}, engine.OpenOptions{Logger: testutil.NewTestLogger(t)})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Close() })
	return srv, pool
}

func TestBuildOptions(t *testing.T) {
	opts := engine.OpenOptions{MaxConns: 5, AcquireTimeout: 3 * time.Second}
	three := 3

	tests := []struct {
		name   string
		cfg    core.ConnectionConfig
		params Params
		addr   string
		db     int
		tls    bool
	}{
		{name: "defaults", addr: "localhost:6379"},
		{name: "database name", cfg: core.ConnectionConfig{Host: "cache", Database: "db7"}, addr: "cache:6379", db: 7},
		{name: "numeric database", cfg: core.ConnectionConfig{Database: "2"}, addr: "localhost:6379", db: 2},
		{name: "params win", cfg: core.ConnectionConfig{Database: "2", Port: 6380}, params: Params{DB: &three, UseTLS: true}, addr: "localhost:6380", db: 3, tls: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := buildOptions(tt.cfg, tt.params, opts)
			require.NoError(t, err)
			assert.Equal(t, tt.addr, o.Addr)
			assert.Equal(t, tt.db, o.DB)
			assert.Equal(t, 5, o.PoolSize)
			assert.Equal(t, tt.tls, o.TLSConfig != nil)
		})
	}

	_, err := buildOptions(core.ConnectionConfig{Database: "db16"}, Params{}, opts)
	require.Error(t, err)
	_, err = buildOptions(core.ConnectionConfig{Database: "sessions"}, Params{}, opts)
	require.Error(t, err)
}

func TestPool_ListTables(t *testing.T) {
	srv, pool := startRedis(t)
	for _, k := range []string{"users", "user_roles", "products", "User:42"} {
		require.NoError(t, srv.Set(k, "x"))
	}
	ctx := context.Background()

	keys, err := pool.ListTables(ctx, core.TableListOptions{Search: "user"})
	require.NoError(t, err)
	assert.Equal(t, []string{"User:42", "user_roles", "users"}, keys)

	keys, err = pool.ListTables(ctx, core.TableListOptions{Offset: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"products", "user_roles"}, keys)

	dbs, err := pool.ListDatabases(ctx)
	require.NoError(t, err)
	assert.Len(t, dbs, 16)
	assert.Equal(t, "db0", dbs[0])
	assert.Equal(t, "db15", dbs[15])
}

func TestPool_FetchTable(t *testing.T) {
	srv, pool := startRedis(t)
	require.NoError(t, srv.Set("greeting", "hello"))
	ctx := context.Background()

	resp, err := pool.FetchTable(ctx, "greeting", core.QueryOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"value"}, resp.Columns)
	assert.Equal(t, [][]any{{"hello"}}, resp.Rows)
	require.NotNil(t, resp.TotalCount)
	assert.Equal(t, int64(1), *resp.TotalCount)

	resp, err = pool.FetchTable(ctx, "missing", core.QueryOptions{SkipCount: true})
	require.NoError(t, err)
	assert.Empty(t, resp.Rows)
	assert.Nil(t, resp.TotalCount)

	_, err = srv.Lpush("queue", "job")
	require.NoError(t, err)
	_, err = pool.FetchTable(ctx, "queue", core.QueryOptions{})
	var qe *core.QueryError
	require.ErrorAs(t, err, &qe)
}

func TestPool_SchemaAndUnsupported(t *testing.T) {
	_, pool := startRedis(t)
	ctx := context.Background()

	cols, err := pool.TableSchema(ctx, "anything")
	require.NoError(t, err)
	assert.Equal(t, []core.ColumnInfo{{Name: "value", DataType: "string", Nullable: true}}, cols)

	_, err = pool.ExecuteQuery(ctx, "SELECT 1")
	assert.True(t, core.IsNotSupported(err))

	_, err = pool.ApplyChanges(ctx, "k", "id", []core.PendingChange{{RowID: "1", ChangeType: core.ChangeDelete}})
	assert.True(t, core.IsNotSupported(err))
	assert.Contains(t, err.Error(), "Execute changes not supported for this database type")

	require.NoError(t, pool.Ping(ctx))
}
