package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/leapstack-labs/leapdb/internal/testutil"
	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubPool satisfies Pool for registry tests; only Ping and Close are used.
type stubPool struct {
	Pool
	pingErr error
	closed  bool
}

func (s *stubPool) Ping(context.Context) error { return s.pingErr }

func (s *stubPool) Close() error {
	s.closed = true
	return nil
}

func TestUnknownEngineError_Error(t *testing.T) {
	err := &UnknownEngineError{
		Kind:      "fake_db",
		Available: []string{"mysql", "postgres"},
	}

	msg := err.Error()

	assert.Contains(t, msg, "fake_db", "error should mention the unknown type")
	assert.Contains(t, msg, "leapdb.yaml", "error should mention config file")
}

func TestRegister(t *testing.T) {
	Register("test_engine_internal", func(context.Context, core.ConnectionConfig, OpenOptions) (Pool, error) {
		return &stubPool{}, nil
	})

	assert.True(t, IsRegistered("test_engine_internal"))
	opener, ok := Get("test_engine_internal")
	assert.True(t, ok)
	assert.NotNil(t, opener)
	assert.Contains(t, ListEngines(), "test_engine_internal")
}

func TestOpen_EmptyKind(t *testing.T) {
	_, err := Open(context.Background(), core.ConnectionConfig{}, OpenOptions{})
	require.Error(t, err)
	assert.Equal(t, "engine type not specified", err.Error())
}

func TestOpen_UnknownKind(t *testing.T) {
	_, err := Open(context.Background(), core.ConnectionConfig{Kind: "no_such_engine"}, OpenOptions{})

	var unknown *UnknownEngineError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "no_such_engine", unknown.Kind)
}

func TestOpen_AppliesDefaultsAndWrapsFailure(t *testing.T) {
	var seen OpenOptions
	Register("test_engine_failing", func(_ context.Context, _ core.ConnectionConfig, opts OpenOptions) (Pool, error) {
		seen = opts
		return nil, errors.New("dial tcp: refused")
	})

	_, err := Open(context.Background(), core.ConnectionConfig{ID: "c1", Kind: "test_engine_failing"}, OpenOptions{})

	var connErr *core.ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.Equal(t, "c1", connErr.ConnectionID)
	assert.Equal(t, "connection failed [c1]: dial tcp: refused", err.Error())
	assert.Equal(t, DefaultMaxConns, seen.MaxConns)
	assert.Equal(t, core.DefaultAcquireTimeout, seen.AcquireTimeout)
	assert.NotNil(t, seen.Logger)
}

func TestTest_PingsAndCloses(t *testing.T) {
	healthy := &stubPool{}
	var seen OpenOptions
	Register("test_engine_ping", func(_ context.Context, _ core.ConnectionConfig, opts OpenOptions) (Pool, error) {
		seen = opts
		return healthy, nil
	})

	err := Test(context.Background(), core.ConnectionConfig{ID: "p", Kind: "test_engine_ping"}, testutil.NewTestLogger(t))
	require.NoError(t, err)
	assert.True(t, healthy.closed, "throwaway pool must be torn down")
	assert.Equal(t, TestMaxConns, seen.MaxConns)
	assert.Equal(t, core.DefaultTestTimeout, seen.AcquireTimeout)
}

func TestTest_PingFailure(t *testing.T) {
	broken := &stubPool{pingErr: errors.New("auth failed")}
	Register("test_engine_broken", func(context.Context, core.ConnectionConfig, OpenOptions) (Pool, error) {
		return broken, nil
	})

	err := Test(context.Background(), core.ConnectionConfig{ID: "b", Kind: "test_engine_broken"}, nil)

	var connErr *core.ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.True(t, broken.closed)
}

func TestUnsupported(t *testing.T) {
	err := Unsupported(core.KindRedis, "explain")
	assert.True(t, core.IsNotSupported(err))
	var qe *core.QueryError
	assert.ErrorAs(t, err, &qe)
}
