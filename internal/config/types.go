// Package config provides the connection directory types shared by the CLI
// and any tool that loads leapdb configuration.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/leapstack-labs/leapdb/pkg/engine"
)

// ConnectionEntry is one logical connection as written in leapdb.yaml.
type ConnectionEntry struct {
	ID   string `koanf:"id"`
	Name string `koanf:"name"`
	Type string `koanf:"type"` // postgres, mysql, sqlite, sqlserver, redis, mongodb or an alias

	// File-based databases (SQLite)
	Path string `koanf:"path"`

	// Network databases
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Database string `koanf:"database"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	SSLMode  string `koanf:"ssl_mode"`

	ReadOnly bool          `koanf:"read_only"`
	Timeout  time.Duration `koanf:"timeout"`

	// Additional driver-specific DSN options
	Options map[string]string `koanf:"options"`

	// Params holds engine-specific settings decoded by each engine package
	Params map[string]any `koanf:"params"`
}

// Kind resolves Type to an engine kind. Unknown types pass through unchanged
// so the engine registry can report them.
func (e *ConnectionEntry) Kind() core.EngineKind {
	if k, ok := core.ParseEngineKind(e.Type); ok {
		return k
	}
	return core.EngineKind(strings.ToLower(e.Type))
}

// Validate checks the entry against the engine registry.
func (e *ConnectionEntry) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("connection id is required")
	}
	if e.Type == "" {
		return fmt.Errorf("connection %s: type is required", e.ID)
	}
	if !engine.IsRegistered(e.Kind()) {
		return fmt.Errorf("connection %s: %w", e.ID, &engine.UnknownEngineError{
			Kind:      e.Type,
			Available: engine.ListEngines(),
		})
	}
	if e.Kind() == core.KindSQLite && e.Path == "" && e.Database == "" {
		return fmt.Errorf("connection %s: sqlite requires path", e.ID)
	}
	return nil
}

// ToConnectionConfig converts the entry to the record passed to connect.
func (e *ConnectionEntry) ToConnectionConfig() core.ConnectionConfig {
	return core.ConnectionConfig{
		ID:       e.ID,
		Name:     e.Name,
		Kind:     e.Kind(),
		Path:     e.Path,
		Host:     e.Host,
		Port:     e.Port,
		Database: e.Database,
		Username: e.User,
		Password: e.Password,
		SSLMode:  e.SSLMode,
		ReadOnly: e.ReadOnly,
		Timeout:  e.Timeout,
		Options:  e.Options,
		Params:   e.Params,
	}
}

// Directory is the minimal project configuration: the connection list.
type Directory struct {
	Connections       []ConnectionEntry `koanf:"connections"`
	DefaultConnection string            `koanf:"default_connection"`
}

// Lookup returns the entry with the given id.
func (d *Directory) Lookup(id string) (*ConnectionEntry, error) {
	for i := range d.Connections {
		if d.Connections[i].ID == id {
			return &d.Connections[i], nil
		}
	}
	return nil, &core.NotFoundError{Resource: "connection", ID: id}
}
