package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/leapstack-labs/leapdb/internal/cli/config"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// QueryOptions holds options for the query command.
type QueryOptions struct {
	Input string
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query [SQL]",
		Short: "Run SQL against the selected connection",
		Long: `Execute SQL verbatim against the selected connection.

SQL is read from the arguments, from --input, or from piped stdin.
When invoked without input on a terminal, enters interactive REPL mode.`,
		Example: `  # Execute SQL directly
  leapdb query "SELECT * FROM users LIMIT 10"

  # Read from a file, output as JSON
  leapdb query --input report.sql -o json

  # Interactive mode
  leapdb -c analytics query`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read SQL from file")
	return cmd
}

func runQuery(cmd *cobra.Command, args []string, opts *QueryOptions) error {
	var sqlQuery string

	switch {
	case len(args) > 0:
		sqlQuery = strings.Join(args, " ")
	case opts.Input != "":
		content, err := os.ReadFile(opts.Input)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		sqlQuery = string(content)
	case !isTerminal(os.Stdin):
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		sqlQuery = string(content)
	default:
		return withConnection(cmd, func(c *CommandContext) error {
			return runQueryREPL(cmd.Context(), c)
		})
	}

	if strings.TrimSpace(sqlQuery) == "" {
		return fmt.Errorf("no SQL to execute")
	}
	return withConnection(cmd, func(c *CommandContext) error {
		return executeAndRender(cmd.Context(), c, sqlQuery)
	})
}

func executeAndRender(ctx context.Context, c *CommandContext, sqlQuery string) error {
	res, err := c.Registry.ExecuteQuery(ctx, c.ConnID(), sqlQuery)
	if err != nil {
		return err
	}
	if c.Format == config.OutputJSON {
		return renderJSON(c.Out, res)
	}
	return renderRows(c.Out, c.Format, res.Columns, res.Rows)
}

// NewExplainCommand creates the explain command.
func NewExplainCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "explain <SQL>",
		Short: "Show the engine's plan for a statement",
		Long: `Show the query plan. Postgres runs EXPLAIN ANALYZE, so the statement is
executed; MySQL runs EXPLAIN and SQLite EXPLAIN QUERY PLAN.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConnection(cmd, func(c *CommandContext) error {
				plan, err := c.Registry.ExplainQuery(cmd.Context(), c.ConnID(), strings.Join(args, " "))
				if err != nil {
					return err
				}
				if c.Format == config.OutputJSON {
					return renderJSON(c.Out, plan)
				}
				for _, line := range plan.Plan {
					_, _ = fmt.Fprintln(c.Out, line)
				}
				return nil
			})
		},
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits in int
}
