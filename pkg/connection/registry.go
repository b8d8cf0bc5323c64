// Package connection maps logical connection ids to live engine pools and
// routes every operation through the pool registered for an id.
package connection

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/leapstack-labs/leapdb/pkg/engine"
)

// SchemaChangeNotifier is called after DDL, or schema-changing raw SQL,
// succeeds on a connection.
type SchemaChangeNotifier func(ctx context.Context, connectionID string)

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the registry logger. A nil logger discards output.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithSchemaChangeNotifier installs the schema change hook.
func WithSchemaChangeNotifier(fn SchemaChangeNotifier) Option {
	return func(r *Registry) { r.notify = fn }
}

// WithOpenOptions overrides the pool options used by Connect.
func WithOpenOptions(opts engine.OpenOptions) Option {
	return func(r *Registry) { r.openOpts = opts }
}

// Registry holds exactly one pool per connection id.
// The lock guards only the map; pools are built and closed outside it.
type Registry struct {
	mu    sync.RWMutex
	pools map[string]engine.Pool

	logger   *slog.Logger
	notify   SchemaChangeNotifier
	openOpts engine.OpenOptions
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		pools:  make(map[string]engine.Pool),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Connect opens a pool for cfg and stores it under cfg.ID, replacing and
// closing any pool already registered for that id.
func (r *Registry) Connect(ctx context.Context, cfg core.ConnectionConfig) error {
	opts := r.openOpts
	opts.Logger = r.logger
	opts.AcquireTimeout = cfg.AcquireTimeout(opts.AcquireTimeout)

	pool, err := engine.Open(ctx, cfg, opts)
	if err != nil {
		return err
	}

	r.mu.Lock()
	prev := r.pools[cfg.ID]
	r.pools[cfg.ID] = pool
	r.mu.Unlock()

	r.logger.Debug("connected",
		slog.String("engine", string(cfg.Kind)),
		slog.String("connection", cfg.ID),
		slog.Bool("replaced", prev != nil))

	if prev != nil {
		r.closePool(cfg.ID, prev)
	}
	return nil
}

// Disconnect removes and closes the pool for id. Unknown ids are ignored.
func (r *Registry) Disconnect(id string) {
	r.mu.Lock()
	pool, ok := r.pools[id]
	delete(r.pools, id)
	r.mu.Unlock()

	if ok {
		r.closePool(id, pool)
	}
}

func (r *Registry) closePool(id string, pool engine.Pool) {
	if err := pool.Close(); err != nil {
		r.logger.Warn("failed to close pool", slog.String("connection", id), slog.Any("error", err))
		return
	}
	r.logger.Debug("pool closed", slog.String("connection", id))
}

// IsConnected reports whether id has a live pool.
func (r *Registry) IsConnected(id string) bool {
	_, ok := r.Pool(id)
	return ok
}

// Pool returns the pool registered for id.
func (r *Registry) Pool(id string) (engine.Pool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pool, ok := r.pools[id]
	return pool, ok
}

// Connections returns the connected ids, sorted.
func (r *Registry) Connections() []string {
	r.mu.RLock()
	ids := make([]string, 0, len(r.pools))
	for id := range r.pools {
		ids = append(ids, id)
	}
	r.mu.RUnlock()
	slices.Sort(ids)
	return ids
}

// TestConnection pings cfg through a throwaway pool. The registry is untouched.
func (r *Registry) TestConnection(ctx context.Context, cfg core.ConnectionConfig) error {
	return engine.Test(ctx, cfg, r.logger)
}

// Close disconnects every connection.
func (r *Registry) Close() error {
	r.mu.Lock()
	pools := r.pools
	r.pools = make(map[string]engine.Pool)
	r.mu.Unlock()

	for id, pool := range pools {
		r.closePool(id, pool)
	}
	return nil
}

// lookup resolves id or reports it as not connected.
func (r *Registry) lookup(id string) (engine.Pool, error) {
	pool, ok := r.Pool(id)
	if !ok {
		return nil, core.NewConnectionError(id, core.ErrNotConnected)
	}
	return pool, nil
}

func (r *Registry) schemaChanged(ctx context.Context, id string) {
	r.logger.Debug("schema changed", slog.String("connection", id))
	if r.notify != nil {
		r.notify(ctx, id)
	}
}
