package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/leapstack-labs/leapdb/pkg/core"
)

// Pool sizing defaults.
const (
	DefaultMaxConns = 5
	TestMaxConns    = 1
)

// OpenOptions tunes pool construction.
type OpenOptions struct {
	// MaxConns bounds the native pool. Zero means DefaultMaxConns.
	MaxConns int

	// AcquireTimeout bounds establishing the pool and checking out a connection.
	AcquireTimeout time.Duration

	Logger *slog.Logger
}

// WithDefaults fills unset fields.
func (o OpenOptions) WithDefaults() OpenOptions {
	if o.MaxConns <= 0 {
		o.MaxConns = DefaultMaxConns
	}
	if o.AcquireTimeout <= 0 {
		o.AcquireTimeout = core.DefaultAcquireTimeout
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// Opener builds a live pool for a connection record.
type Opener func(ctx context.Context, cfg core.ConnectionConfig, opts OpenOptions) (Pool, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[core.EngineKind]Opener)
)

// Register adds an engine opener to the registry.
// Called by engine implementations in their init() functions.
func Register(kind core.EngineKind, opener Opener) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[kind] = opener
}

// Get retrieves an opener by kind, resolving family aliases.
func Get(kind core.EngineKind) (Opener, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	o, ok := registry[kind.Family()]
	return o, ok
}

// Open creates a pool for cfg using the registered opener for its kind.
// Failures are reported as *core.ConnectionError.
func Open(ctx context.Context, cfg core.ConnectionConfig, opts OpenOptions) (Pool, error) {
	if cfg.Kind == "" {
		return nil, fmt.Errorf("engine type not specified")
	}

	opener, ok := Get(cfg.Kind)
	if !ok {
		return nil, &UnknownEngineError{
			Kind:      string(cfg.Kind),
			Available: ListEngines(),
		}
	}

	opts = opts.WithDefaults()
	opts.Logger.Debug("opening pool",
		slog.String("engine", string(cfg.Kind)),
		slog.String("connection", cfg.ID),
		slog.Int("max_conns", opts.MaxConns),
		slog.Duration("acquire_timeout", opts.AcquireTimeout))

	pool, err := opener(ctx, cfg, opts)
	if err != nil {
		return nil, core.NewConnectionError(cfg.ID, err)
	}
	return pool, nil
}

// Test builds a throwaway single-connection pool, pings it and tears it down.
// The timeout defaults to core.DefaultTestTimeout.
func Test(ctx context.Context, cfg core.ConnectionConfig, logger *slog.Logger) error {
	timeout := cfg.AcquireTimeout(core.DefaultTestTimeout)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	pool, err := Open(ctx, cfg, OpenOptions{
		MaxConns:       TestMaxConns,
		AcquireTimeout: timeout,
		Logger:         logger,
	})
	if err != nil {
		return err
	}
	defer func() { _ = pool.Close() }()

	if err := pool.Ping(ctx); err != nil {
		return core.NewConnectionError(cfg.ID, err)
	}
	return nil
}

// ListEngines returns all registered engine kinds (sorted).
func ListEngines() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for kind := range registry {
		names = append(names, string(kind))
	}
	sort.Strings(names)
	return names
}

// IsRegistered checks if an engine kind is registered.
func IsRegistered(kind core.EngineKind) bool {
	_, ok := Get(kind)
	return ok
}
