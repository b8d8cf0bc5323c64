// Package redis provides the Redis engine for leapdb.
//
// Redis has no catalog. Databases are the fixed db0..db15 set, "tables" are
// key names and a table's data is the key's string value.
package redis

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"

	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/leapstack-labs/leapdb/pkg/engine"
	goredis "github.com/redis/go-redis/v9"
)

// DefaultPort is used when the connection leaves Port unset.
const DefaultPort = 6379

const databaseCount = 16

// ValueColumn is the single synthetic column of a key.
const ValueColumn = "value"

// Params are the Redis-specific connection params.
type Params struct {
	UseTLS bool `mapstructure:"use_tls"`
	// DB selects the logical database. When unset, Database is parsed
	// as "3" or "db3".
	DB *int `mapstructure:"db"`
}

// ParseParams decodes cfg.Params.
func ParseParams(cfg core.ConnectionConfig) (Params, error) {
	var p Params
	err := engine.DecodeParams(cfg.Params, &p)
	return p, err
}

// Pool implements engine.Pool for Redis.
type Pool struct {
	client *goredis.Client
	cfg    core.ConnectionConfig
	logger *slog.Logger
}

// Open creates the client pool and pings it.
func Open(ctx context.Context, cfg core.ConnectionConfig, opts engine.OpenOptions) (engine.Pool, error) {
	opts = opts.WithDefaults()

	params, err := ParseParams(cfg)
	if err != nil {
		return nil, err
	}
	options, err := buildOptions(cfg, params, opts)
	if err != nil {
		return nil, err
	}

	opts.Logger.Debug("connecting to redis",
		slog.String("connection", cfg.ID),
		slog.String("addr", options.Addr),
		slog.Int("db", options.DB))

	client := goredis.NewClient(options)

	ctx, cancel := context.WithTimeout(ctx, opts.AcquireTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &Pool{client: client, cfg: cfg, logger: opts.Logger}, nil
}

func buildOptions(cfg core.ConnectionConfig, params Params, opts engine.OpenOptions) (*goredis.Options, error) {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = DefaultPort
	}

	db := 0
	if params.DB != nil {
		db = *params.DB
	} else if cfg.Database != "" {
		n, err := strconv.Atoi(strings.TrimPrefix(cfg.Database, "db"))
		if err != nil {
			return nil, fmt.Errorf("invalid redis database %q: %w", cfg.Database, err)
		}
		db = n
	}
	if db < 0 || db >= databaseCount {
		return nil, fmt.Errorf("redis database %d out of range 0-%d", db, databaseCount-1)
	}

	options := &goredis.Options{
		Addr:        net.JoinHostPort(host, strconv.Itoa(port)),
		Username:    cfg.Username,
		Password:    cfg.Password,
		DB:          db,
		PoolSize:    opts.MaxConns,
		DialTimeout: opts.AcquireTimeout,
		PoolTimeout: opts.AcquireTimeout,
	}
	if params.UseTLS {
		options.TLSConfig = &tls.Config{ServerName: host, MinVersion: tls.VersionTLS12}
	}
	return options, nil
}

// Kind reports core.KindRedis.
func (p *Pool) Kind() core.EngineKind { return core.KindRedis }

// Ping sends PING.
func (p *Pool) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

// Close shuts down the client and its connection pool.
func (p *Pool) Close() error {
	p.logger.Debug("closing redis client", slog.String("connection", p.cfg.ID))
	return p.client.Close()
}

// ListDatabases returns db0..db15.
func (p *Pool) ListDatabases(context.Context) ([]string, error) {
	dbs := make([]string, databaseCount)
	for i := range dbs {
		dbs[i] = fmt.Sprintf("db%d", i)
	}
	return dbs, nil
}

// ListTables scans every key, then filters, sorts and slices in memory.
// KEYS is O(n); this engine targets single-user development databases.
func (p *Pool) ListTables(ctx context.Context, opts core.TableListOptions) ([]string, error) {
	keys, err := p.client.Keys(ctx, "*").Result()
	if err != nil {
		return nil, core.NewQueryError(err)
	}
	return engine.FilterNames(keys, opts), nil
}

// ListViews is always empty; Redis has no views.
func (p *Pool) ListViews(context.Context) ([]string, error) { return []string{}, nil }

// ListFunctions is always empty.
func (p *Pool) ListFunctions(context.Context) ([]string, error) { return []string{}, nil }

// TableSchema reports the synthetic value column.
func (p *Pool) TableSchema(context.Context, string) ([]core.ColumnInfo, error) {
	return []core.ColumnInfo{{Name: ValueColumn, DataType: "string", Nullable: true}}, nil
}

// ForeignKeys is always empty.
func (p *Pool) ForeignKeys(context.Context, string) ([]core.ForeignKeyInfo, error) {
	return []core.ForeignKeyInfo{}, nil
}

// Indexes is always empty.
func (p *Pool) Indexes(context.Context, string) ([]core.IndexInfo, error) {
	return []core.IndexInfo{}, nil
}

// FetchTable GETs the key. A missing key yields no rows; options other than
// SkipCount do not apply to a single value.
func (p *Pool) FetchTable(ctx context.Context, key string, opts core.QueryOptions) (*core.TableDataResponse, error) {
	rows := [][]any{}
	val, err := p.client.Get(ctx, key).Result()
	switch {
	case errors.Is(err, goredis.Nil):
	case err != nil:
		return nil, core.NewQueryError(err)
	default:
		rows = append(rows, []any{val})
	}

	resp := &core.TableDataResponse{Columns: []string{ValueColumn}, Rows: rows}
	if !opts.SkipCount {
		total := int64(len(rows))
		resp.TotalCount = &total
	}
	return resp, nil
}

// ColumnValues is not supported on Redis.
func (p *Pool) ColumnValues(context.Context, string, string, int) ([]any, error) {
	return nil, engine.Unsupported(core.KindRedis, "column values")
}

// ExecuteQuery is not supported on Redis.
func (p *Pool) ExecuteQuery(context.Context, string) (*core.QueryResult, error) {
	return nil, engine.Unsupported(core.KindRedis, "Query execution")
}

// Explain is not supported on Redis.
func (p *Pool) Explain(context.Context, string) (*core.ExplainResult, error) {
	return nil, engine.Unsupported(core.KindRedis, "EXPLAIN")
}

// ExecuteDDL is not supported on Redis.
func (p *Pool) ExecuteDDL(context.Context, string) error {
	return engine.Unsupported(core.KindRedis, "DDL execution")
}

// ApplyChanges is not supported on Redis.
func (p *Pool) ApplyChanges(context.Context, string, string, []core.PendingChange) (*core.ExecuteResult, error) {
	return nil, engine.Unsupported(core.KindRedis, "Execute changes")
}

var _ engine.Pool = (*Pool)(nil)
