package commands

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/leapstack-labs/leapdb/internal/cli/config"
	"github.com/leapstack-labs/leapdb/pkg/engine"
	"github.com/spf13/cobra"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version, commit, buildDate string) *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display the leapdb version, build information and the compiled-in engines.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if short {
				_, _ = fmt.Fprintln(out, version)
				return nil
			}
			if f, _ := cmd.Flags().GetString("output"); f == config.OutputJSON {
				return renderJSON(out, map[string]any{
					"version":    version,
					"commit":     commit,
					"build_date": buildDate,
					"go":         runtime.Version(),
					"engines":    engine.ListEngines(),
				})
			}
			_, _ = fmt.Fprintf(out, "leapdb v%s\n", version)
			_, _ = fmt.Fprintf(out, "commit %s, built %s with %s\n", commit, buildDate, runtime.Version())
			_, _ = fmt.Fprintf(out, "engines: %s\n", strings.Join(engine.ListEngines(), ", "))
			return nil
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "Print only the version number")
	return cmd
}
