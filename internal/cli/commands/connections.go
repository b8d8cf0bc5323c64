package commands

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/leapstack-labs/leapdb/internal/cli/config"
	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/leapstack-labs/leapdb/pkg/engine"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// NewConnectionsCommand creates the connections command.
func NewConnectionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "connections",
		Aliases: []string{"conns"},
		Short:   "List configured connections",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContextWithoutConnection(cmd)
			return listConnections(cmdCtx)
		},
	}
}

func listConnections(cmdCtx *CommandContext) error {
	entries := cmdCtx.Cfg.Connections
	if cmdCtx.Format == config.OutputJSON {
		type item struct {
			ID       string `json:"id"`
			Name     string `json:"name"`
			Type     string `json:"type"`
			Target   string `json:"target"`
			ReadOnly bool   `json:"read_only"`
			Default  bool   `json:"default"`
		}
		out := make([]item, 0, len(entries))
		for _, e := range entries {
			out = append(out, item{e.ID, e.Name, string(e.Kind()), connectionTarget(e), e.ReadOnly, e.ID == cmdCtx.Cfg.DefaultConnection})
		}
		return renderJSON(cmdCtx.Out, out)
	}

	rows := make([][]any, 0, len(entries))
	for _, e := range entries {
		marker := ""
		if e.ID == cmdCtx.Cfg.DefaultConnection {
			marker = "*"
		}
		rows = append(rows, []any{marker, e.ID, string(e.Kind()), connectionTarget(e), e.ReadOnly})
	}
	return renderRows(cmdCtx.Out, cmdCtx.Format, []string{"", "ID", "Type", "Target", "Read-only"}, rows)
}

// connectionTarget renders where a connection points, without credentials.
func connectionTarget(e config.ConnectionEntry) string {
	if e.Kind() == core.KindSQLite {
		if e.Path != "" {
			return e.Path
		}
		return e.Database
	}
	target := fmt.Sprintf("%s:%d", e.Host, e.Port)
	if e.Database != "" {
		target += "/" + e.Database
	}
	return target
}

// NewTestCommand creates the test command.
func NewTestCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "test [connection-id]",
		Short: "Test one connection, or all of them",
		Long: `Open a throwaway single-connection pool, ping it and close it.

Without an argument every configured connection is tested concurrently.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContextWithoutConnection(cmd)
			entries := cmdCtx.Cfg.Connections
			if len(args) == 1 {
				e, err := cmdCtx.Cfg.Directory().Lookup(args[0])
				if err != nil {
					return err
				}
				entries = []config.ConnectionEntry{*e}
			}
			return testConnections(cmd, cmdCtx, entries)
		},
	}
}

type testOutcome struct {
	ID       string        `json:"id"`
	OK       bool          `json:"ok"`
	Duration time.Duration `json:"duration_ns"`
	Error    string        `json:"error,omitempty"`
}

func testConnections(cmd *cobra.Command, cmdCtx *CommandContext, entries []config.ConnectionEntry) error {
	outcomes := make([]testOutcome, len(entries))
	var mu sync.Mutex
	failed := 0

	var g errgroup.Group
	for i, e := range entries {
		g.Go(func() error {
			start := time.Now()
			err := engine.Test(cmd.Context(), e.ToConnectionConfig(), cmdCtx.Logger)
			out := testOutcome{ID: e.ID, OK: err == nil, Duration: time.Since(start)}
			if err != nil {
				out.Error = err.Error()
				cmdCtx.Logger.Debug("connection test failed", slog.String("connection", e.ID), slog.Any("error", err))
				mu.Lock()
				failed++
				mu.Unlock()
			}
			outcomes[i] = out
			return nil
		})
	}
	_ = g.Wait()

	if cmdCtx.Format == config.OutputJSON {
		if err := renderJSON(cmdCtx.Out, outcomes); err != nil {
			return err
		}
	} else {
		rows := make([][]any, len(outcomes))
		for i, o := range outcomes {
			status := "ok"
			if !o.OK {
				status = "FAILED"
			}
			rows[i] = []any{o.ID, status, o.Duration.Round(time.Millisecond), o.Error}
		}
		if err := renderRows(cmdCtx.Out, cmdCtx.Format, []string{"Connection", "Status", "Time", "Error"}, rows); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d connection tests failed", failed, len(entries))
	}
	return nil
}
