package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/leapstack-labs/leapdb/internal/cli/config"
	"github.com/leapstack-labs/leapdb/pkg/connection"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Registry *connection.Registry

	// Conn is the selected connection; nil without a connection.
	Conn *config.ConnectionEntry

	Format string
	Out    io.Writer
	ErrOut io.Writer
}

// ConnID returns the selected connection id.
func (c *CommandContext) ConnID() string {
	if c.Conn == nil {
		return ""
	}
	return c.Conn.ID
}

// NewCommandContext connects the selected connection.
// Returns the context and a cleanup function that must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cmdCtx := NewCommandContextWithoutConnection(cmd)

	entry, err := cmdCtx.Cfg.SelectedConnection()
	if err != nil {
		return nil, nil, err
	}
	cmdCtx.Conn = entry

	reg := connection.NewRegistry(
		connection.WithLogger(cmdCtx.Logger),
		connection.WithSchemaChangeNotifier(func(_ context.Context, id string) {
			cmdCtx.Logger.Info("schema changed", slog.String("connection", id))
		}),
	)
	if err := reg.Connect(cmd.Context(), entry.ToConnectionConfig()); err != nil {
		return nil, nil, err
	}
	cmdCtx.Registry = reg

	cleanup := func() {
		_ = reg.Close()
	}
	return cmdCtx, cleanup, nil
}

// NewCommandContextWithoutConnection creates a CommandContext without a
// live connection. Useful for commands that only read configuration.
func NewCommandContextWithoutConnection(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	return &CommandContext{
		Cfg:    cfg,
		Logger: config.GetLogger(cmd.Context()),
		Format: cfg.OutputFormat,
		Out:    cmd.OutOrStdout(),
		ErrOut: cmd.ErrOrStderr(),
	}
}

// getConfig returns the loaded configuration, or an empty one with defaults.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return &config.Config{OutputFormat: config.DefaultOutput}
}

// withConnection runs fn with a connected CommandContext.
func withConnection(cmd *cobra.Command, fn func(*CommandContext) error) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer cleanup()
	return fn(cmdCtx)
}
