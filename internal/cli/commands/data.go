package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapdb/internal/cli/config"
	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/spf13/cobra"
)

// DataOptions holds options for the data command.
type DataOptions struct {
	Filters   []string
	Or        bool
	Sort      string
	After     string
	Before    string
	Limit     int
	Offset    int
	Columns   []string
	SkipCount bool
}

// NewDataCommand creates the data command.
func NewDataCommand() *cobra.Command {
	opts := &DataOptions{}

	cmd := &cobra.Command{
		Use:   "data <table>",
		Short: "Read a filtered, paginated page of a table",
		Long: `Read one page of a table.

Filters take the form column:operator[:value]. Operators are equals, notEquals,
like, isNull, isNotNull, in, greaterThan and lessThan. Values are parsed as JSON
when possible, so 42 is a number and "42" a string; in takes a comma list.
A cursor (--after or --before) replaces --sort and --offset.`,
		Example: `  leapdb data users --filter status:equals:active --limit 30
  leapdb data users --filter deleted_at:isNull --filter role:in:admin,owner --or
  leapdb data events --after id:1200 --limit 50 --skip-count`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			qopts, err := opts.QueryOptions()
			if err != nil {
				return err
			}
			return withConnection(cmd, func(c *CommandContext) error {
				page, err := c.Registry.GetTableDataFiltered(cmd.Context(), c.ConnID(), args[0], qopts)
				if err != nil {
					return err
				}
				return renderPage(c, page)
			})
		},
	}

	cmd.Flags().StringArrayVarP(&opts.Filters, "filter", "f", nil, "Filter as column:operator[:value] (repeatable)")
	cmd.Flags().BoolVar(&opts.Or, "or", false, "Join filters with OR instead of AND")
	cmd.Flags().StringVar(&opts.Sort, "sort", "", "Sort as column[:desc]")
	cmd.Flags().StringVar(&opts.After, "after", "", "Cursor as column:value, rows after value")
	cmd.Flags().StringVar(&opts.Before, "before", "", "Cursor as column:value, rows before value")
	cmd.Flags().IntVar(&opts.Limit, "limit", core.DefaultLimit, "Page size")
	cmd.Flags().IntVar(&opts.Offset, "offset", 0, "Rows to skip")
	cmd.Flags().StringSliceVar(&opts.Columns, "columns", nil, "Columns to select (default all)")
	cmd.Flags().BoolVar(&opts.SkipCount, "skip-count", false, "Do not compute the total row count")
	cmd.MarkFlagsMutuallyExclusive("after", "before")

	return cmd
}

// QueryOptions converts the flags into core.QueryOptions.
func (o *DataOptions) QueryOptions() (core.QueryOptions, error) {
	q := core.QueryOptions{
		Limit:           o.Limit,
		Offset:          o.Offset,
		SkipCount:       o.SkipCount,
		SelectedColumns: o.Columns,
	}
	if o.Or {
		q.FilterLogic = core.LogicOr
	}

	for _, raw := range o.Filters {
		f, err := parseFilter(raw)
		if err != nil {
			return q, err
		}
		q.Filters = append(q.Filters, f)
	}

	if o.Sort != "" {
		col, dir, _ := strings.Cut(o.Sort, ":")
		s := &core.SortConfig{Column: col, Direction: core.SortAsc}
		switch strings.ToLower(dir) {
		case "", "asc":
		case "desc":
			s.Direction = core.SortDesc
		default:
			return q, fmt.Errorf("invalid sort direction %q (expected asc or desc)", dir)
		}
		q.Sort = s
	}

	switch {
	case o.After != "":
		c, err := parseCursor(o.After, core.CursorAfter)
		if err != nil {
			return q, err
		}
		q.Cursor = c
	case o.Before != "":
		c, err := parseCursor(o.Before, core.CursorBefore)
		if err != nil {
			return q, err
		}
		q.Cursor = c
	}
	return q, nil
}

var operators = map[string]core.FilterOperator{
	"equals":      core.OpEquals,
	"eq":          core.OpEquals,
	"notequals":   core.OpNotEquals,
	"ne":          core.OpNotEquals,
	"like":        core.OpLike,
	"isnull":      core.OpIsNull,
	"isnotnull":   core.OpIsNotNull,
	"in":          core.OpIn,
	"greaterthan": core.OpGreaterThan,
	"gt":          core.OpGreaterThan,
	"lessthan":    core.OpLessThan,
	"lt":          core.OpLessThan,
}

// parseFilter parses column:operator[:value].
func parseFilter(raw string) (core.ColumnFilter, error) {
	parts := strings.SplitN(raw, ":", 3)
	if len(parts) < 2 || parts[0] == "" {
		return core.ColumnFilter{}, fmt.Errorf("invalid filter %q (expected column:operator[:value])", raw)
	}
	op, ok := operators[strings.ToLower(parts[1])]
	if !ok {
		return core.ColumnFilter{}, fmt.Errorf("unknown filter operator %q", parts[1])
	}

	f := core.ColumnFilter{Column: parts[0], Operator: op}
	if len(parts) == 3 {
		if op == core.OpIn {
			items := strings.Split(parts[2], ",")
			values := make([]any, len(items))
			for i, item := range items {
				values[i] = parseValue(strings.TrimSpace(item))
			}
			f.Value = values
		} else {
			f.Value = parseValue(parts[2])
		}
	}
	if op.NeedsValue() && f.Value == nil {
		return f, fmt.Errorf("filter %q needs a value", raw)
	}
	return f, nil
}

// parseCursor parses column:value.
func parseCursor(raw string, dir core.CursorDirection) (*core.CursorConfig, error) {
	col, val, ok := strings.Cut(raw, ":")
	if !ok || col == "" {
		return nil, fmt.Errorf("invalid cursor %q (expected column:value)", raw)
	}
	return &core.CursorConfig{Column: col, Direction: dir, Value: parseValue(val)}, nil
}

// parseValue decodes s as JSON, falling back to the raw string.
func parseValue(s string) any {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err == nil {
		return v
	}
	return s
}

func renderPage(c *CommandContext, page *core.TableDataResponse) error {
	if c.Format == config.OutputJSON {
		return renderJSON(c.Out, page)
	}
	if err := renderRows(c.Out, c.Format, page.Columns, page.Rows); err != nil {
		return err
	}
	if page.TotalCount != nil {
		_, _ = fmt.Fprintf(c.ErrOut, "total: %d\n", *page.TotalCount)
	}
	if page.NextCursor != nil {
		_, _ = fmt.Fprintf(c.ErrOut, "next cursor: %v\n", formatValue(page.NextCursor))
	}
	return nil
}
