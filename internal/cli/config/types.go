// Package config provides configuration management for the leapdb CLI.
//
// It layers CLI-specific settings (output format, verbosity, the selected
// connection) over the shared connection directory in internal/config.
package config

import (
	sharedcfg "github.com/leapstack-labs/leapdb/internal/config"
)

// ConnectionEntry is an alias for the shared connection entry.
type ConnectionEntry = sharedcfg.ConnectionEntry

// Config holds all CLI configuration options.
type Config struct {
	Connections       []ConnectionEntry `koanf:"connections"`
	DefaultConnection string            `koanf:"default_connection"`

	// Connection is the id selected with --connection for this invocation.
	Connection   string `koanf:"connection"`
	Verbose      bool   `koanf:"verbose"`
	OutputFormat string `koanf:"output"`

	// ProjectRoot is the directory the config file was found in.
	ProjectRoot string `koanf:"-"`
}

// Output formats.
const (
	OutputTable    = "table"
	OutputJSON     = "json"
	OutputCSV      = "csv"
	OutputMarkdown = "md"
)

// Default configuration values.
const (
	DefaultOutput = OutputTable
)

// OutputFormats lists the accepted --output values.
var OutputFormats = []string{OutputTable, OutputJSON, OutputCSV, OutputMarkdown}

// Directory returns the shared view of the connection list.
func (c *Config) Directory() *sharedcfg.Directory {
	return &sharedcfg.Directory{
		Connections:       c.Connections,
		DefaultConnection: c.DefaultConnection,
	}
}

// SelectedConnection returns the entry chosen by --connection, falling back to
// default_connection and then to the only configured connection.
func (c *Config) SelectedConnection() (*ConnectionEntry, error) {
	id := c.Connection
	if id == "" {
		id = c.DefaultConnection
	}
	if id == "" && len(c.Connections) == 1 {
		return &c.Connections[0], nil
	}
	if id == "" {
		return nil, errNoConnection
	}
	return c.Directory().Lookup(id)
}
