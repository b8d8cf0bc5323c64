// Package mysql provides the MySQL engine for leapdb. MariaDB connections
// share it.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/leapstack-labs/leapdb/pkg/dialect"
	"github.com/leapstack-labs/leapdb/pkg/engine"
)

// DefaultPort is used when the connection leaves Port unset.
const DefaultPort = 3306

// Connection tuning shared by every MySQL pool.
const (
	minAcquireTimeout = 10 * time.Second
	idleTimeout       = 10 * time.Minute
)

// Params are the MySQL-specific connection params.
type Params struct {
	// SSLMode is one of disable, prefer, require, verify-ca, verify-full.
	SSLMode string `mapstructure:"ssl_mode"`
	Charset string `mapstructure:"charset"`
}

// ParseParams decodes cfg.Params.
func ParseParams(cfg core.ConnectionConfig) (Params, error) {
	var p Params
	err := engine.DecodeParams(cfg.Params, &p)
	return p, err
}

// Pool implements engine.Pool for MySQL.
type Pool struct {
	engine.SQLPool
}

// Open builds a bounded database/sql pool for cfg and pings it.
// MySQL handshakes are slow on some hosts, so the acquire timeout is never
// below ten seconds.
func Open(ctx context.Context, cfg core.ConnectionConfig, opts engine.OpenOptions) (engine.Pool, error) {
	opts = opts.WithDefaults()
	opts.AcquireTimeout = max(opts.AcquireTimeout, minAcquireTimeout)

	params, err := ParseParams(cfg)
	if err != nil {
		return nil, err
	}

	mc := buildConfig(cfg, params, opts.AcquireTimeout)
	connector, err := mysql.NewConnector(mc)
	if err != nil {
		return nil, fmt.Errorf("failed to build mysql connector: %w", err)
	}

	opts.Logger.Debug("connecting to mysql",
		slog.String("connection", cfg.ID),
		slog.String("addr", mc.Addr),
		slog.String("database", cfg.Database))

	db := sql.OpenDB(connector)
	engine.ApplyPoolOptions(db, opts)
	db.SetConnMaxIdleTime(idleTimeout)

	ctx, cancel := context.WithTimeout(ctx, opts.AcquireTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping mysql: %w", err)
	}

	return &Pool{SQLPool: engine.NewSQLPool(db, "mysql", dialect.MySQL, cfg, opts.Logger)}, nil
}

// buildConfig maps a connection record onto the driver config.
func buildConfig(cfg core.ConnectionConfig, params Params, timeout time.Duration) *mysql.Config {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = DefaultPort
	}

	mc := mysql.NewConfig()
	mc.User = cfg.Username
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(host, strconv.Itoa(port))
	mc.DBName = cfg.Database
	mc.ParseTime = true
	mc.Timeout = timeout

	sslMode := params.SSLMode
	if sslMode == "" {
		sslMode = cfg.SSLMode
	}
	mc.TLSConfig = tlsConfigName(sslMode)

	if params.Charset != "" {
		mc.Params = map[string]string{"charset": params.Charset}
	}
	for k, v := range cfg.Options {
		if mc.Params == nil {
			mc.Params = make(map[string]string)
		}
		mc.Params[k] = v
	}
	return mc
}

// tlsConfigName maps libpq-style SSL modes onto the driver's named TLS configs.
func tlsConfigName(mode string) string {
	switch strings.ToLower(mode) {
	case "prefer", "preferred":
		return "preferred"
	case "require", "required":
		return "skip-verify"
	case "verify-ca", "verify-full", "verify_identity":
		return "true"
	default:
		return "false"
	}
}

// Explain runs EXPLAIN and renders each plan row as "column=value" pairs.
func (p *Pool) Explain(ctx context.Context, sqlStr string) (*core.ExplainResult, error) {
	res, err := p.ExecuteQuery(ctx, "EXPLAIN "+sqlStr)
	if err != nil {
		return nil, err
	}
	return &core.ExplainResult{Plan: dumpRows(res)}, nil
}

func dumpRows(res *core.QueryResult) []string {
	plan := make([]string, 0, len(res.Rows))
	for _, row := range res.Rows {
		parts := make([]string, len(row))
		for i, v := range row {
			if v == nil {
				v = "NULL"
			}
			parts[i] = fmt.Sprintf("%s=%v", res.Columns[i], v)
		}
		plan = append(plan, strings.Join(parts, ", "))
	}
	return plan
}

var _ engine.Pool = (*Pool)(nil)
