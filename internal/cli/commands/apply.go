package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/leapstack-labs/leapdb/internal/cli/config"
	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/spf13/cobra"
)

// NewApplyCommand creates the apply command.
func NewApplyCommand() *cobra.Command {
	var changesFile string

	cmd := &cobra.Command{
		Use:   "apply <table> <primary-key-column>",
		Short: "Apply a batch of pending row changes in one transaction",
		Long: `Apply insert, update and delete changes read from a JSON array.

The batch is all-or-nothing: any failure rolls back every change and each
failure is reported. Use "-" to read the changes from stdin.`,
		Example: `  leapdb apply users id --changes changes.json

  # changes.json
  [
    {"row_id": "7", "column": "email", "new_value": "a@example.com", "change_type": "update"},
    {"row_id": "9", "column": "", "new_value": null, "change_type": "delete"}
  ]`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			changes, err := readChanges(cmd, changesFile)
			if err != nil {
				return err
			}
			return withConnection(cmd, func(c *CommandContext) error {
				res, err := c.Registry.ExecuteChanges(cmd.Context(), c.ConnID(), args[0], args[1], changes)
				if err != nil {
					return err
				}
				return renderExecuteResult(c, res)
			})
		},
	}

	cmd.Flags().StringVar(&changesFile, "changes", "", "JSON file with pending changes (- for stdin)")
	_ = cmd.MarkFlagRequired("changes")
	return cmd
}

func readChanges(cmd *cobra.Command, path string) ([]core.PendingChange, error) {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path) //nolint:gosec // path is a user-supplied CLI argument
		if err != nil {
			return nil, fmt.Errorf("failed to open changes file: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	var changes []core.PendingChange
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&changes); err != nil {
		return nil, fmt.Errorf("failed to decode changes: %w", err)
	}
	for i, ch := range changes {
		switch ch.ChangeType {
		case core.ChangeInsert, core.ChangeUpdate, core.ChangeDelete:
		default:
			return nil, fmt.Errorf("change %d: unknown change_type %q", i, ch.ChangeType)
		}
	}
	return changes, nil
}

func renderExecuteResult(c *CommandContext, res *core.ExecuteResult) error {
	if c.Format == config.OutputJSON {
		return renderJSON(c.Out, res)
	}
	if res.Success {
		_, _ = fmt.Fprintf(c.Out, "Committed: %d rows affected\n", res.RowsAffected)
		return nil
	}
	_, _ = fmt.Fprintln(c.Out, "Rolled back:")
	for _, e := range res.Errors {
		_, _ = fmt.Fprintf(c.Out, "  %s\n", e)
	}
	return fmt.Errorf("%d of the changes failed", len(res.Errors))
}
