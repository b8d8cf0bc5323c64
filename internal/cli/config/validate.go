package config

import (
	"errors"
	"fmt"
	"slices"
)

var errNoConnection = errors.New("no connection selected\nHint: pass --connection <id> or set default_connection in leapdb.yaml")

// Validate checks the output format, connection entries and id uniqueness.
func (c *Config) Validate() error {
	if c.OutputFormat != "" && !slices.Contains(OutputFormats, c.OutputFormat) {
		return fmt.Errorf("invalid output format %q (expected one of %v)", c.OutputFormat, OutputFormats)
	}

	seen := make(map[string]struct{}, len(c.Connections))
	for i := range c.Connections {
		e := &c.Connections[i]
		if err := e.Validate(); err != nil {
			return err
		}
		if _, dup := seen[e.ID]; dup {
			return fmt.Errorf("duplicate connection id %q", e.ID)
		}
		seen[e.ID] = struct{}{}
	}

	if c.DefaultConnection != "" {
		if _, err := c.Directory().Lookup(c.DefaultConnection); err != nil {
			return fmt.Errorf("default_connection: %w", err)
		}
	}
	return nil
}
