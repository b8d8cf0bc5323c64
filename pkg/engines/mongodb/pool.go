// Package mongodb provides the MongoDB engine for leapdb.
//
// Collections stand in for tables. Documents are flattened into rows whose
// columns are the union of keys seen on the page, with _id first.
package mongodb

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/leapstack-labs/leapdb/pkg/engine"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// DefaultPort is used when the connection leaves Port unset.
const DefaultPort = 27017

// minTimeout is the floor for connect, server selection and socket timeouts.
const minTimeout = 60 * time.Second

// Params are the MongoDB-specific connection params.
type Params struct {
	UseTLS     bool   `mapstructure:"use_tls"`
	AuthSource string `mapstructure:"auth_source"`
}

// ParseParams decodes cfg.Params.
func ParseParams(cfg core.ConnectionConfig) (Params, error) {
	var p Params
	err := engine.DecodeParams(cfg.Params, &p)
	return p, err
}

// Pool implements engine.Pool for MongoDB.
type Pool struct {
	client   *mongo.Client
	database string
	cfg      core.ConnectionConfig
	logger   *slog.Logger
}

// Open connects the client and pings the primary.
func Open(ctx context.Context, cfg core.ConnectionConfig, opts engine.OpenOptions) (engine.Pool, error) {
	opts = opts.WithDefaults()

	params, err := ParseParams(cfg)
	if err != nil {
		return nil, err
	}
	uri := buildURI(cfg, params, opts)

	opts.Logger.Debug("connecting to mongodb",
		slog.String("connection", cfg.ID),
		slog.String("host", cfg.Host),
		slog.String("database", cfg.Database))

	ctx, cancel := context.WithTimeout(ctx, max(opts.AcquireTimeout, minTimeout))
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to create mongodb client: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Pool{client: client, database: cfg.Database, cfg: cfg, logger: opts.Logger}, nil
}

// buildURI renders a direct-connection URI. Credentials are escaped and
// never logged.
func buildURI(cfg core.ConnectionConfig, params Params, opts engine.OpenOptions) string {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = DefaultPort
	}

	timeoutMS := strconv.FormatInt(max(opts.AcquireTimeout, minTimeout).Milliseconds(), 10)
	q := url.Values{}
	q.Set("directConnection", "true")
	if params.UseTLS {
		q.Set("tls", "true")
	}
	if params.AuthSource != "" {
		q.Set("authSource", params.AuthSource)
	}
	q.Set("connectTimeoutMS", timeoutMS)
	q.Set("serverSelectionTimeoutMS", timeoutMS)
	q.Set("socketTimeoutMS", timeoutMS)
	q.Set("maxPoolSize", strconv.Itoa(opts.MaxConns))

	u := &url.URL{
		Scheme:   "mongodb",
		Host:     net.JoinHostPort(host, strconv.Itoa(port)),
		Path:     "/" + cfg.Database,
		RawQuery: q.Encode(),
	}
	if cfg.Username != "" && cfg.Password != "" {
		u.User = url.UserPassword(cfg.Username, cfg.Password)
	}
	return u.String()
}

// Kind reports core.KindMongoDB.
func (p *Pool) Kind() core.EngineKind { return core.KindMongoDB }

// Ping runs {ping: 1} against admin.
func (p *Pool) Ping(ctx context.Context) error {
	return p.client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}

// Close disconnects the client.
func (p *Pool) Close() error {
	p.logger.Debug("disconnecting mongodb client", slog.String("connection", p.cfg.ID))
	return p.client.Disconnect(context.Background())
}

func (p *Pool) db() *mongo.Database {
	return p.client.Database(p.database)
}

// ExecuteQuery is not supported on MongoDB.
func (p *Pool) ExecuteQuery(context.Context, string) (*core.QueryResult, error) {
	return nil, engine.Unsupported(core.KindMongoDB, "Query execution")
}

// Explain is not supported on MongoDB.
func (p *Pool) Explain(context.Context, string) (*core.ExplainResult, error) {
	return nil, engine.Unsupported(core.KindMongoDB, "EXPLAIN")
}

// ExecuteDDL is not supported on MongoDB.
func (p *Pool) ExecuteDDL(context.Context, string) error {
	return engine.Unsupported(core.KindMongoDB, "DDL execution")
}

// ApplyChanges is not supported on MongoDB.
func (p *Pool) ApplyChanges(context.Context, string, string, []core.PendingChange) (*core.ExecuteResult, error) {
	return nil, engine.Unsupported(core.KindMongoDB, "Execute changes")
}

var _ engine.Pool = (*Pool)(nil)
