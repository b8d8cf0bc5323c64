package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/leapstack-labs/leapdb/pkg/ddl"
	"github.com/spf13/cobra"
)

// ddlBuilder renders the statements for one ddl subcommand.
type ddlBuilder func(g ddl.Generator, args []string) ([]string, error)

// NewDDLCommand creates the ddl command and its subcommands.
func NewDDLCommand() *cobra.Command {
	var execute bool

	cmd := &cobra.Command{
		Use:   "ddl",
		Short: "Preview or execute schema changes",
		Long: `Generate DDL for the selected connection's dialect (Postgres, MySQL or SQLite).

Statements are printed by default. Pass --execute to run them.

Columns are written as name:type[:flags], where flags is a comma list of
notnull, pk, auto and default=<expr>. Defaults are spliced verbatim, so string
defaults carry their own quotes.`,
		Example: `  leapdb ddl create-table users --column id:INTEGER:pk,auto --column "email:TEXT:notnull"
  leapdb ddl add-column users --column "created_at:TIMESTAMP:default=CURRENT_TIMESTAMP" --execute
  leapdb ddl add-fk orders user_id users id --on-delete CASCADE`,
	}
	cmd.PersistentFlags().BoolVar(&execute, "execute", false, "Execute the statements instead of printing them")

	sub := func(c *cobra.Command, build ddlBuilder) *cobra.Command {
		c.RunE = func(cmd *cobra.Command, args []string) error {
			return runDDL(cmd, args, execute, build)
		}
		cmd.AddCommand(c)
		return c
	}

	var (
		columns    []string
		primaryKey []string
		file       string
	)
	createTable := sub(&cobra.Command{
		Use:   "create-table <table>",
		Short: "Create a table",
		Args:  cobra.RangeArgs(0, 1),
	}, func(g ddl.Generator, args []string) ([]string, error) {
		req, err := createTableRequest(args, columns, primaryKey, file)
		if err != nil {
			return nil, err
		}
		stmt, err := g.CreateTable(req)
		return []string{stmt}, err
	})
	createTable.Flags().StringArrayVar(&columns, "column", nil, "Column as name:type[:flags] (repeatable)")
	createTable.Flags().StringSliceVar(&primaryKey, "primary-key", nil, "Primary key columns (default: columns flagged pk)")
	createTable.Flags().StringVar(&file, "file", "", "JSON CreateTableRequest file")

	var column string
	addColumn := sub(&cobra.Command{
		Use:   "add-column <table>",
		Short: "Add a column",
		Args:  cobra.ExactArgs(1),
	}, func(g ddl.Generator, args []string) ([]string, error) {
		col, err := parseColumnSpec(column)
		if err != nil {
			return nil, err
		}
		stmt, err := g.AddColumn(args[0], col)
		return []string{stmt}, err
	})
	addColumn.Flags().StringVar(&column, "column", "", "Column as name:type[:flags]")
	_ = addColumn.MarkFlagRequired("column")

	sub(&cobra.Command{
		Use:   "drop-column <table> <column>",
		Short: "Drop a column",
		Args:  cobra.ExactArgs(2),
	}, func(g ddl.Generator, args []string) ([]string, error) {
		stmt, err := g.DropColumn(args[0], args[1])
		return []string{stmt}, err
	})

	var modified string
	modifyColumn := sub(&cobra.Command{
		Use:   "modify-column <table> <current-name>",
		Short: "Rename or retype a column (not SQLite)",
		Args:  cobra.ExactArgs(2),
	}, func(g ddl.Generator, args []string) ([]string, error) {
		col, err := parseColumnSpec(modified)
		if err != nil {
			return nil, err
		}
		return g.ModifyColumn(args[0], args[1], col)
	})
	modifyColumn.Flags().StringVar(&modified, "column", "", "New definition as name:type[:flags]")
	_ = modifyColumn.MarkFlagRequired("column")

	var (
		indexColumns []string
		unique       bool
	)
	createIndex := sub(&cobra.Command{
		Use:   "create-index <table> <index>",
		Short: "Create an index",
		Args:  cobra.ExactArgs(2),
	}, func(g ddl.Generator, args []string) ([]string, error) {
		stmt, err := g.CreateIndex(args[0], core.IndexDefinition{Name: args[1], Columns: indexColumns, Unique: unique})
		return []string{stmt}, err
	})
	createIndex.Flags().StringSliceVar(&indexColumns, "columns", nil, "Indexed columns")
	createIndex.Flags().BoolVar(&unique, "unique", false, "Create a unique index")
	_ = createIndex.MarkFlagRequired("columns")

	sub(&cobra.Command{
		Use:   "drop-index <table> <index>",
		Short: "Drop an index",
		Args:  cobra.ExactArgs(2),
	}, func(g ddl.Generator, args []string) ([]string, error) {
		stmt, err := g.DropIndex(args[0], args[1])
		return []string{stmt}, err
	})

	var fk core.ForeignKeyDefinition
	addFK := sub(&cobra.Command{
		Use:   "add-fk <table> <column> <ref-table> <ref-column>",
		Short: "Add a foreign key",
		Args:  cobra.ExactArgs(4),
	}, func(g ddl.Generator, args []string) ([]string, error) {
		def := fk
		def.Column, def.RefTable, def.RefColumn = args[1], args[2], args[3]
		stmt, err := g.AddForeignKey(args[0], def)
		return []string{stmt}, err
	})
	addFK.Flags().StringVar(&fk.Name, "name", "", "Constraint name (default fk_<table>_<column>)")
	addFK.Flags().StringVar(&fk.OnDelete, "on-delete", "", "ON DELETE action")
	addFK.Flags().StringVar(&fk.OnUpdate, "on-update", "", "ON UPDATE action")

	sub(&cobra.Command{
		Use:   "drop-constraint <table> <constraint>",
		Short: "Drop a constraint",
		Args:  cobra.ExactArgs(2),
	}, func(g ddl.Generator, args []string) ([]string, error) {
		stmt, err := g.DropConstraint(args[0], args[1])
		return []string{stmt}, err
	})

	sub(&cobra.Command{
		Use:   "drop-table <table>",
		Short: "Drop a table",
		Args:  cobra.ExactArgs(1),
	}, func(g ddl.Generator, args []string) ([]string, error) {
		stmt, err := g.DropTable(args[0])
		return []string{stmt}, err
	})

	return cmd
}

func runDDL(cmd *cobra.Command, args []string, execute bool, build ddlBuilder) error {
	cmdCtx := NewCommandContextWithoutConnection(cmd)
	entry, err := cmdCtx.Cfg.SelectedConnection()
	if err != nil {
		return err
	}
	g, err := ddl.For(entry.Kind())
	if err != nil {
		return err
	}
	stmts, err := build(g, args)
	if err != nil {
		return err
	}

	if !execute {
		_, _ = fmt.Fprintln(cmdCtx.Out, ddl.JoinStatements(stmts))
		return nil
	}

	return withConnection(cmd, func(c *CommandContext) error {
		for _, stmt := range stmts {
			if err := c.Registry.ExecuteDDL(cmd.Context(), c.ConnID(), stmt); err != nil {
				return fmt.Errorf("failed to execute %q: %w", stmt, err)
			}
			_, _ = fmt.Fprintln(c.Out, stmt)
		}
		_, _ = fmt.Fprintf(c.ErrOut, "%d statement(s) executed\n", len(stmts))
		return nil
	})
}

func createTableRequest(args, columns, primaryKey []string, file string) (core.CreateTableRequest, error) {
	var req core.CreateTableRequest
	if file != "" {
		raw, err := os.ReadFile(file) //nolint:gosec // path is a user-supplied CLI argument
		if err != nil {
			return req, fmt.Errorf("failed to read %s: %w", file, err)
		}
		if err := json.Unmarshal(raw, &req); err != nil {
			return req, fmt.Errorf("failed to decode %s: %w", file, err)
		}
	}
	if len(args) == 1 {
		req.TableName = args[0]
	}

	for _, spec := range columns {
		col, err := parseColumnSpec(spec)
		if err != nil {
			return req, err
		}
		req.Columns = append(req.Columns, col)
	}
	if len(primaryKey) > 0 {
		req.PrimaryKey = primaryKey
	}
	if len(req.PrimaryKey) == 0 {
		for _, col := range req.Columns {
			if col.IsPrimaryKey {
				req.PrimaryKey = append(req.PrimaryKey, col.Name)
			}
		}
	}
	return req, nil
}

// parseColumnSpec parses name:type[:flags].
func parseColumnSpec(spec string) (core.ColumnDefinition, error) {
	parts := strings.SplitN(spec, ":", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return core.ColumnDefinition{}, fmt.Errorf("invalid column %q (expected name:type[:flags])", spec)
	}

	col := core.ColumnDefinition{Name: parts[0], DataType: parts[1], Nullable: true}
	if len(parts) < 3 {
		return col, nil
	}

	rest := parts[2]
	// default= consumes the remainder, so expressions may contain commas.
	if i := strings.Index(rest, "default="); i >= 0 {
		def := rest[i+len("default="):]
		col.DefaultValue = &def
		rest = rest[:i]
	}
	for _, flag := range strings.Split(rest, ",") {
		switch strings.ToLower(strings.TrimSpace(flag)) {
		case "":
		case "notnull", "not null":
			col.Nullable = false
		case "pk":
			col.IsPrimaryKey = true
			col.Nullable = false
		case "auto", "autoincrement":
			col.IsAutoIncrement = true
		default:
			return col, fmt.Errorf("invalid column flag %q in %q", flag, spec)
		}
	}
	return col, nil
}
