// Package postgres provides the PostgreSQL engine for leapdb.
//
// The engine runs on a bounded pgxpool exposed to database/sql through
// pgx's stdlib adapter. CockroachDB and Redshift connections share it.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/leapstack-labs/leapdb/pkg/dialect"
	"github.com/leapstack-labs/leapdb/pkg/engine"
)

// DefaultPort is used when the connection leaves Port unset.
const DefaultPort = 5432

// Params are the Postgres-specific connection params.
type Params struct {
	SSLMode         string `mapstructure:"ssl_mode"`
	ApplicationName string `mapstructure:"application_name"`
}

// ParseParams decodes cfg.Params.
func ParseParams(cfg core.ConnectionConfig) (Params, error) {
	var p Params
	err := engine.DecodeParams(cfg.Params, &p)
	return p, err
}

// Pool implements engine.Pool for PostgreSQL.
type Pool struct {
	engine.SQLPool
	native *pgxpool.Pool
}

// Open creates the pgx pool and verifies it within opts.AcquireTimeout.
func Open(ctx context.Context, cfg core.ConnectionConfig, opts engine.OpenOptions) (engine.Pool, error) {
	opts = opts.WithDefaults()

	params, err := ParseParams(cfg)
	if err != nil {
		return nil, err
	}

	poolCfg, err := pgxpool.ParseConfig(buildPostgresDSN(cfg, params))
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres config: %w", err)
	}
	poolCfg.MaxConns = int32(opts.MaxConns) //nolint:gosec // bounded by configuration
	poolCfg.ConnConfig.ConnectTimeout = opts.AcquireTimeout
	if cfg.ReadOnly {
		poolCfg.ConnConfig.RuntimeParams["default_transaction_read_only"] = "on"
	}

	opts.Logger.Debug("connecting to postgres",
		slog.String("connection", cfg.ID),
		slog.String("host", cfg.Host),
		slog.String("database", cfg.Database),
		slog.Bool("read_only", cfg.ReadOnly))

	ctx, cancel := context.WithTimeout(ctx, opts.AcquireTimeout)
	defer cancel()

	native, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}
	if err := native.Ping(ctx); err != nil {
		native.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return &Pool{
		SQLPool: engine.NewSQLPool(stdlib.OpenDBFromPool(native), "pgx", dialect.Postgres, cfg, opts.Logger),
		native:  native,
	}, nil
}

// Close closes the database/sql handle and drains the pgx pool beneath it.
func (p *Pool) Close() error {
	err := p.SQLPool.Close()
	if p.native != nil {
		p.native.Close()
	}
	return err
}

// Explain runs EXPLAIN ANALYZE and returns one plan line per row.
func (p *Pool) Explain(ctx context.Context, sqlStr string) (*core.ExplainResult, error) {
	plan, err := p.QueryStrings(ctx, "EXPLAIN ANALYZE "+sqlStr)
	if err != nil {
		return nil, err
	}
	return &core.ExplainResult{Plan: plan}, nil
}

// buildPostgresDSN constructs a key=value PostgreSQL connection string.
func buildPostgresDSN(cfg core.ConnectionConfig, params Params) string {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}

	port := cfg.Port
	if port == 0 {
		port = DefaultPort
	}

	sslmode := "disable"
	switch {
	case params.SSLMode != "":
		sslmode = params.SSLMode
	case cfg.SSLMode != "":
		sslmode = cfg.SSLMode
	case cfg.Options["sslmode"] != "":
		sslmode = cfg.Options["sslmode"]
	}

	dsn := fmt.Sprintf("host=%s port=%d dbname=%s sslmode=%s",
		dsnValue(host), port, dsnValue(cfg.Database), dsnValue(sslmode))

	if cfg.Username != "" {
		dsn += " user=" + dsnValue(cfg.Username)
	}
	if cfg.Password != "" {
		dsn += " password=" + dsnValue(cfg.Password)
	}
	if params.ApplicationName != "" {
		dsn += " application_name=" + dsnValue(params.ApplicationName)
	}

	return dsn
}

// dsnValue quotes a keyword/value connection string value when it is empty
// or contains spaces, quotes or backslashes.
func dsnValue(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(v) + "'"
}

var _ engine.Pool = (*Pool)(nil)
