package commands

import (
	"strings"

	"github.com/leapstack-labs/leapdb/internal/cli/config"
	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/spf13/cobra"
)

// NewDatabasesCommand creates the databases command.
func NewDatabasesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "databases",
		Short: "List databases visible to the connection",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withConnection(cmd, func(c *CommandContext) error {
				names, err := c.Registry.ListDatabases(cmd.Context(), c.ConnID())
				if err != nil {
					return err
				}
				return renderList(c.Out, c.Format, "Database", names)
			})
		},
	}
}

// NewTablesCommand creates the tables command.
func NewTablesCommand() *cobra.Command {
	var opts core.TableListOptions

	cmd := &cobra.Command{
		Use:   "tables",
		Short: "List tables (keys for Redis, collections for MongoDB)",
		Example: `  leapdb tables
  leapdb tables --search user --limit 20
  leapdb -c cache tables --search session:`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withConnection(cmd, func(c *CommandContext) error {
				names, err := c.Registry.ListTables(cmd.Context(), c.ConnID(), opts)
				if err != nil {
					return err
				}
				return renderList(c.Out, c.Format, "Table", names)
			})
		},
	}

	cmd.Flags().StringVarP(&opts.Search, "search", "s", "", "Case-insensitive substring filter")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "Maximum number of names (0 = all)")
	cmd.Flags().IntVar(&opts.Offset, "offset", 0, "Names to skip")
	return cmd
}

// NewViewsCommand creates the views command.
func NewViewsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "views",
		Short: "List views",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withConnection(cmd, func(c *CommandContext) error {
				names, err := c.Registry.ListViews(cmd.Context(), c.ConnID())
				if err != nil {
					return err
				}
				return renderList(c.Out, c.Format, "View", names)
			})
		},
	}
}

// NewFunctionsCommand creates the functions command.
func NewFunctionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "functions",
		Short: "List functions and procedures",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withConnection(cmd, func(c *CommandContext) error {
				names, err := c.Registry.ListFunctions(cmd.Context(), c.ConnID())
				if err != nil {
					return err
				}
				return renderList(c.Out, c.Format, "Function", names)
			})
		},
	}
}

// NewSchemaCommand creates the schema command.
func NewSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema <table>",
		Short: "Show the columns of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConnection(cmd, func(c *CommandContext) error {
				cols, err := c.Registry.TableSchema(cmd.Context(), c.ConnID(), args[0])
				if err != nil {
					return err
				}
				return renderColumns(c, cols)
			})
		},
	}
}

func renderColumns(c *CommandContext, cols []core.ColumnInfo) error {
	if c.Format == config.OutputJSON {
		return renderJSON(c.Out, cols)
	}
	rows := make([][]any, len(cols))
	for i, col := range cols {
		var maxLen any = ""
		if col.MaxLength != nil {
			maxLen = *col.MaxLength
		}
		rows[i] = []any{col.Name, col.DataType, yesNo(col.Nullable), maxLen, yesNo(col.IsPrimaryKey)}
	}
	return renderRows(c.Out, c.Format, []string{"Column", "Type", "Nullable", "Max length", "Primary key"}, rows)
}

// NewForeignKeysCommand creates the fks command.
func NewForeignKeysCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "fks <table>",
		Aliases: []string{"foreign-keys"},
		Short:   "Show the foreign keys of a table",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConnection(cmd, func(c *CommandContext) error {
				fks, err := c.Registry.ForeignKeys(cmd.Context(), c.ConnID(), args[0])
				if err != nil {
					return err
				}
				if c.Format == config.OutputJSON {
					return renderJSON(c.Out, fks)
				}
				rows := make([][]any, len(fks))
				for i, fk := range fks {
					rows[i] = []any{fk.ConstraintName, fk.ColumnName, fk.ReferencedTable, fk.ReferencedColumn}
				}
				return renderRows(c.Out, c.Format, []string{"Constraint", "Column", "References", "Referenced column"}, rows)
			})
		},
	}
}

// NewIndexesCommand creates the indexes command.
func NewIndexesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "indexes <table>",
		Short: "Show the indexes of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConnection(cmd, func(c *CommandContext) error {
				idxs, err := c.Registry.Indexes(cmd.Context(), c.ConnID(), args[0])
				if err != nil {
					return err
				}
				if c.Format == config.OutputJSON {
					return renderJSON(c.Out, idxs)
				}
				rows := make([][]any, len(idxs))
				for i, idx := range idxs {
					rows[i] = []any{idx.Name, strings.Join(idx.Columns, ", "), yesNo(idx.Unique), idx.IndexType}
				}
				return renderRows(c.Out, c.Format, []string{"Index", "Columns", "Unique", "Type"}, rows)
			})
		},
	}
}

// NewValuesCommand creates the values command.
func NewValuesCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "values <table> <column>",
		Short: "Show distinct values of a column",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConnection(cmd, func(c *CommandContext) error {
				values, err := c.Registry.ColumnValues(cmd.Context(), c.ConnID(), args[0], args[1], limit)
				if err != nil {
					return err
				}
				if c.Format == config.OutputJSON {
					return renderJSON(c.Out, values)
				}
				rows := make([][]any, len(values))
				for i, v := range values {
					rows[i] = []any{v}
				}
				return renderRows(c.Out, c.Format, []string{args[1]}, rows)
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", core.DefaultLimit, "Maximum number of values")
	return cmd
}

// NewDumpSchemaCommand creates the dump-schema command.
func NewDumpSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dump-schema",
		Short: "Print every table with its columns, plus views and functions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withConnection(cmd, func(c *CommandContext) error {
				schema, err := c.Registry.GetDatabaseSchema(cmd.Context(), c.ConnID())
				if err != nil {
					return err
				}
				if c.Format == config.OutputJSON {
					return renderJSON(c.Out, schema)
				}
				rows := make([][]any, 0)
				for _, t := range schema.Tables {
					for _, col := range t.Columns {
						rows = append(rows, []any{t.Name, col.Name, col.DataType, yesNo(col.Nullable), yesNo(col.IsPrimaryKey)})
					}
				}
				return renderRows(c.Out, c.Format, []string{"Table", "Column", "Type", "Nullable", "Primary key"}, rows)
			})
		},
	}
}

func yesNo(b bool) string {
	if b {
		return "YES"
	}
	return "NO"
}
