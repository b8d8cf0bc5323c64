package core

import "time"

// Default timeouts applied when a connection record does not set one.
const (
	DefaultAcquireTimeout = 60 * time.Second
	DefaultTestTimeout    = 5 * time.Second
)

// ConnectionConfig is a resolved logical connection record.
// It is treated as immutable once passed to connect.
type ConnectionConfig struct {
	ID       string
	Name     string
	Kind     EngineKind
	Path     string // file path for SQLite
	Host     string
	Port     int
	Database string
	Username string
	Password string
	SSLMode  string
	ReadOnly bool

	// Timeout bounds pool acquisition. Zero means the caller's default.
	Timeout time.Duration

	// Options contains additional driver-specific DSN options.
	Options map[string]string

	// Params holds engine-specific settings decoded by each engine package.
	Params map[string]any
}

// AcquireTimeout returns the configured timeout or fallback when unset.
func (c ConnectionConfig) AcquireTimeout(fallback time.Duration) time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return fallback
}

// DisplayName returns Name, falling back to ID.
func (c ConnectionConfig) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.ID
}
