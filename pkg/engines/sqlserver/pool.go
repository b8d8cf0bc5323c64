// Package sqlserver provides the SQL Server engine for leapdb.
//
// The engine is lazy: Open only validates the record, and every operation
// dials its own short-lived connection. Catalog listings beyond the database
// name, table browsing and change batches are not available.
package sqlserver

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"

	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/leapstack-labs/leapdb/pkg/dialect"
	"github.com/leapstack-labs/leapdb/pkg/engine"

	_ "github.com/microsoft/go-mssqldb" // registers the "sqlserver" driver
)

// DefaultPort is used when the connection leaves Port unset.
const DefaultPort = 1433

const driverName = "sqlserver"

// Params are the SQL Server-specific connection params.
type Params struct {
	Encrypt                bool `mapstructure:"encrypt"`
	TrustServerCertificate bool `mapstructure:"trust_server_certificate"`
}

// ParseParams decodes cfg.Params.
func ParseParams(cfg core.ConnectionConfig) (Params, error) {
	var p Params
	err := engine.DecodeParams(cfg.Params, &p)
	return p, err
}

// Pool implements engine.Pool for SQL Server.
type Pool struct {
	cfg    core.ConnectionConfig
	dsn    string
	opts   engine.OpenOptions
	logger *slog.Logger
}

// Open validates cfg and returns a lazy pool. No connection is made.
func Open(_ context.Context, cfg core.ConnectionConfig, opts engine.OpenOptions) (engine.Pool, error) {
	opts = opts.WithDefaults()
	params, err := ParseParams(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Host == "" {
		return nil, fmt.Errorf("sqlserver connection requires a host")
	}
	return &Pool{
		cfg:    cfg,
		dsn:    buildDSN(cfg, params, opts),
		opts:   opts,
		logger: opts.Logger,
	}, nil
}

func buildDSN(cfg core.ConnectionConfig, params Params, opts engine.OpenOptions) string {
	port := cfg.Port
	if port == 0 {
		port = DefaultPort
	}

	q := url.Values{}
	if cfg.Database != "" {
		q.Set("database", cfg.Database)
	}
	if params.Encrypt {
		q.Set("encrypt", "true")
	} else {
		q.Set("encrypt", "disable")
	}
	if params.TrustServerCertificate {
		q.Set("TrustServerCertificate", "true")
	}
	q.Set("connection timeout", strconv.Itoa(int(opts.AcquireTimeout.Seconds())))
	if cfg.ReadOnly {
		q.Set("ApplicationIntent", "ReadOnly")
	}

	u := &url.URL{
		Scheme:   "sqlserver",
		Host:     net.JoinHostPort(cfg.Host, strconv.Itoa(port)),
		RawQuery: q.Encode(),
	}
	if cfg.Username != "" {
		u.User = url.UserPassword(cfg.Username, cfg.Password)
	}
	return u.String()
}

// withConn dials a single-connection handle, runs fn and closes it.
func (p *Pool) withConn(ctx context.Context, fn func(*engine.SQLPool) error) error {
	db, err := sql.Open(driverName, p.dsn)
	if err != nil {
		return core.NewConnectionError(p.cfg.ID, err)
	}
	db.SetMaxOpenConns(1)

	sp := engine.NewSQLPool(db, driverName, dialect.SQLServer, p.cfg, p.logger)
	defer func() { _ = sp.Close() }()

	ctx, cancel := context.WithTimeout(ctx, p.opts.AcquireTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return core.NewConnectionError(p.cfg.ID, err)
	}
	return fn(&sp)
}

func (p *Pool) Kind() core.EngineKind { return p.cfg.Kind }

// Ping dials and runs SELECT 1.
func (p *Pool) Ping(ctx context.Context) error {
	return p.withConn(ctx, func(sp *engine.SQLPool) error {
		return sp.Ping(ctx)
	})
}

// Close is a no-op; no connection outlives an operation.
func (p *Pool) Close() error { return nil }

// ExecuteQuery runs sqlStr on a fresh connection.
func (p *Pool) ExecuteQuery(ctx context.Context, sqlStr string) (*core.QueryResult, error) {
	var res *core.QueryResult
	err := p.withConn(ctx, func(sp *engine.SQLPool) error {
		var err error
		res, err = sp.ExecuteQuery(ctx, sqlStr)
		return err
	})
	return res, err
}

func (p *Pool) ListDatabases(context.Context) ([]string, error) {
	return []string{"master"}, nil
}

func (p *Pool) ListTables(context.Context, core.TableListOptions) ([]string, error) {
	return []string{}, nil
}

func (p *Pool) ListViews(context.Context) ([]string, error)     { return []string{}, nil }
func (p *Pool) ListFunctions(context.Context) ([]string, error) { return []string{}, nil }

func (p *Pool) TableSchema(context.Context, string) ([]core.ColumnInfo, error) {
	return []core.ColumnInfo{}, nil
}

func (p *Pool) ForeignKeys(context.Context, string) ([]core.ForeignKeyInfo, error) {
	return []core.ForeignKeyInfo{}, nil
}

func (p *Pool) Indexes(context.Context, string) ([]core.IndexInfo, error) {
	return []core.IndexInfo{}, nil
}

func (p *Pool) FetchTable(context.Context, string, core.QueryOptions) (*core.TableDataResponse, error) {
	return nil, engine.Unsupported(core.KindSQLServer, "table data")
}

func (p *Pool) ColumnValues(context.Context, string, string, int) ([]any, error) {
	return nil, engine.Unsupported(core.KindSQLServer, "column values")
}

func (p *Pool) Explain(context.Context, string) (*core.ExplainResult, error) {
	return nil, engine.Unsupported(core.KindSQLServer, "EXPLAIN")
}

func (p *Pool) ExecuteDDL(context.Context, string) error {
	return engine.Unsupported(core.KindSQLServer, "DDL execution")
}

func (p *Pool) ApplyChanges(context.Context, string, string, []core.PendingChange) (*core.ExecuteResult, error) {
	return nil, engine.Unsupported(core.KindSQLServer, "Execute changes")
}

var _ engine.Pool = (*Pool)(nil)
