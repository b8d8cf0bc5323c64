package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/leapdb/pkg/core"
)

const (
	replPrompt     = "leapdb> "
	replContPrompt = "   ...> "
)

func runQueryREPL(ctx context.Context, c *CommandContext) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     historyFile(),
		AutoComplete:    newTableCompleter(ctx, c),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintf(c.Out, "leapdb REPL (connection: %s, %s)\n", c.ConnID(), c.Conn.Kind())
	_, _ = fmt.Fprintln(c.Out, "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(c.Out)

	var multiLineBuffer strings.Builder
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			multiLineBuffer.Reset()
			rl.SetPrompt(replPrompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if multiLineBuffer.Len() == 0 && strings.HasPrefix(line, ".") {
			if quit := handleDotCommand(ctx, c, line); quit {
				break
			}
			continue
		}

		// Accumulate multi-line SQL until semicolon
		multiLineBuffer.WriteString(line)
		if !strings.HasSuffix(line, ";") {
			multiLineBuffer.WriteString(" ")
			rl.SetPrompt(replContPrompt)
			continue
		}
		rl.SetPrompt(replPrompt)

		query := strings.TrimSuffix(multiLineBuffer.String(), ";")
		multiLineBuffer.Reset()

		if err := executeAndRender(ctx, c, query); err != nil {
			_, _ = fmt.Fprintf(c.ErrOut, "Error: %v\n", err)
		}
		_, _ = fmt.Fprintln(c.Out)
	}

	return nil
}

// historyFile keeps REPL history in the user config directory.
func historyFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	dir = filepath.Join(dir, "leapdb")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return ""
	}
	return filepath.Join(dir, "query_history")
}

// handleDotCommand runs a REPL dot-command. It returns true to quit.
func handleDotCommand(ctx context.Context, c *CommandContext, line string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	var err error
	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(c.Out)

	case ".tables":
		opts := core.TableListOptions{}
		if len(parts) > 1 {
			opts.Search = parts[1]
		}
		var names []string
		if names, err = c.Registry.ListTables(ctx, c.ConnID(), opts); err == nil {
			err = renderList(c.Out, c.Format, "Table", names)
		}

	case ".views":
		var names []string
		if names, err = c.Registry.ListViews(ctx, c.ConnID()); err == nil {
			err = renderList(c.Out, c.Format, "View", names)
		}

	case ".schema":
		if len(parts) < 2 {
			_, _ = fmt.Fprintln(c.ErrOut, "Usage: .schema <table>")
			return false
		}
		var cols []core.ColumnInfo
		if cols, err = c.Registry.TableSchema(ctx, c.ConnID(), parts[1]); err == nil {
			err = renderColumns(c, cols)
		}

	case ".explain":
		var plan *core.ExplainResult
		if plan, err = c.Registry.ExplainQuery(ctx, c.ConnID(), strings.TrimSpace(strings.TrimPrefix(line, parts[0]))); err == nil {
			for _, l := range plan.Plan {
				_, _ = fmt.Fprintln(c.Out, l)
			}
		}

	case ".clear":
		_, _ = fmt.Fprint(c.Out, "\033[H\033[2J")

	default:
		_, _ = fmt.Fprintf(c.ErrOut, "Unknown command: %s (type .help for commands)\n", command)
	}

	if err != nil {
		_, _ = fmt.Fprintf(c.ErrOut, "Error: %v\n", err)
	}
	return false
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help             Show this help message
  .tables [search]  List tables, optionally filtered
  .views            List views
  .schema <name>    Show columns of a table
  .explain <sql>    Show the plan for a statement
  .clear            Clear the screen
  .quit / .exit     Exit the REPL

Tips:
  - SQL statements must end with a semicolon (;)
  - Use arrow keys to navigate history
  - Tab completion works for table names
`
	_, _ = fmt.Fprintln(w, help)
}

// newTableCompleter creates a readline completer for table names.
func newTableCompleter(ctx context.Context, c *CommandContext) *readline.PrefixCompleter {
	items := []readline.PrefixCompleterInterface{
		readline.PcItem(".help"),
		readline.PcItem(".tables"),
		readline.PcItem(".views"),
		readline.PcItem(".explain"),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	}

	// Completion is best effort.
	names, err := c.Registry.ListTables(ctx, c.ConnID(), core.TableListOptions{})
	if err != nil {
		return readline.NewPrefixCompleter(items...)
	}
	tableItems := make([]readline.PrefixCompleterInterface, 0, len(names))
	for _, name := range names {
		items = append(items, readline.PcItem(name))
		tableItems = append(tableItems, readline.PcItem(name))
	}
	items = append(items, readline.PcItem(".schema", tableItems...))
	return readline.NewPrefixCompleter(items...)
}
