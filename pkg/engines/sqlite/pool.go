// Package sqlite provides the SQLite engine for leapdb, backed by the
// pure-Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/leapstack-labs/leapdb/pkg/dialect"
	"github.com/leapstack-labs/leapdb/pkg/engine"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

const memoryPath = ":memory:"

// Params are the SQLite-specific connection params.
type Params struct {
	// ForeignKeys enables foreign key enforcement on every connection.
	ForeignKeys *bool `mapstructure:"foreign_keys"`
	// BusyTimeoutMS is how long a writer waits on a locked database.
	BusyTimeoutMS int `mapstructure:"busy_timeout_ms"`
}

// ParseParams decodes cfg.Params.
func ParseParams(cfg core.ConnectionConfig) (Params, error) {
	var p Params
	err := engine.DecodeParams(cfg.Params, &p)
	return p, err
}

// Pool implements engine.Pool for SQLite.
type Pool struct {
	engine.SQLPool
}

// Open opens the database file, creating it unless the connection is read-only.
// An in-memory database is private to one connection, so its pool holds one.
func Open(ctx context.Context, cfg core.ConnectionConfig, opts engine.OpenOptions) (engine.Pool, error) {
	opts = opts.WithDefaults()

	params, err := ParseParams(cfg)
	if err != nil {
		return nil, err
	}

	path := cfg.Path
	if path == "" {
		path = cfg.Database
	}
	if path == "" {
		return nil, fmt.Errorf("sqlite connection requires a path")
	}

	if path == memoryPath {
		opts.MaxConns = 1
	} else if !cfg.ReadOnly {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	dsn := buildDSN(path, cfg.ReadOnly, params)
	opts.Logger.Debug("opening sqlite database",
		slog.String("connection", cfg.ID),
		slog.String("path", path),
		slog.Bool("read_only", cfg.ReadOnly))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	engine.ApplyPoolOptions(db, opts)

	ctx, cancel := context.WithTimeout(ctx, opts.AcquireTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite: %w", err)
	}

	return &Pool{SQLPool: engine.NewSQLPool(db, "sqlite", dialect.SQLite, cfg, opts.Logger)}, nil
}

// buildDSN renders a file: URI. Read-only connections use mode=ro and fail
// on a missing file; others use mode=rwc.
func buildDSN(path string, readOnly bool, params Params) string {
	if path == memoryPath {
		return memoryPath
	}

	q := url.Values{}
	if readOnly {
		q.Set("mode", "ro")
	} else {
		q.Set("mode", "rwc")
	}
	if params.ForeignKeys == nil || *params.ForeignKeys {
		q.Add("_pragma", "foreign_keys(1)")
	}
	if params.BusyTimeoutMS > 0 {
		q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", params.BusyTimeoutMS))
	}

	// Paths keep their slashes; only characters meaningful in a URI are escaped.
	escaped := strings.NewReplacer("%", "%25", "?", "%3f", "#", "%23").Replace(path)
	return "file:" + escaped + "?" + q.Encode()
}

// Explain runs EXPLAIN QUERY PLAN and renders each step as "parent:{p} {detail}".
func (p *Pool) Explain(ctx context.Context, sqlStr string) (*core.ExplainResult, error) {
	res, err := p.ExecuteQuery(ctx, "EXPLAIN QUERY PLAN "+sqlStr)
	if err != nil {
		return nil, err
	}
	plan := make([]string, 0, len(res.Rows))
	for _, row := range res.Rows {
		if len(row) < 4 {
			continue
		}
		plan = append(plan, fmt.Sprintf("parent:%v %v", row[1], row[3]))
	}
	return &core.ExplainResult{Plan: plan}, nil
}

var _ engine.Pool = (*Pool)(nil)
