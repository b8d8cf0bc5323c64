// Package ddl renders schema-changing statements for the relational engines
// that support editing: Postgres, MySQL and SQLite.
//
// Generators are pure: they never touch a connection. Execute the returned
// text with connection.Registry.ExecuteDDL.
package ddl

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/leapstack-labs/leapdb/pkg/dialect"
)

// Generator renders DDL for one dialect.
type Generator interface {
	CreateTable(req core.CreateTableRequest) (string, error)
	AddColumn(table string, col core.ColumnDefinition) (string, error)
	DropColumn(table, column string) (string, error)

	// ModifyColumn returns one statement per step; Postgres needs several.
	ModifyColumn(table, oldName string, col core.ColumnDefinition) ([]string, error)

	CreateIndex(table string, idx core.IndexDefinition) (string, error)
	DropIndex(table, index string) (string, error)
	AddForeignKey(table string, fk core.ForeignKeyDefinition) (string, error)
	DropConstraint(table, constraint string) (string, error)
	DropTable(table string) (string, error)

	// Dialect returns the dialect used for quoting.
	Dialect() *dialect.Dialect
}

// For returns the generator for kind, resolving family aliases through the
// dialect registry.
func For(kind core.EngineKind) (Generator, error) {
	d, ok := dialect.ForKind(kind)
	if ok {
		switch d.Kind {
		case core.KindPostgres:
			return &postgresGenerator{base{d: d}}, nil
		case core.KindMySQL:
			return &mysqlGenerator{base{d: d}}, nil
		case core.KindSQLite:
			return &sqliteGenerator{base{d: d}}, nil
		}
	}
	return nil, core.QueryErrorf("schema editing %w (%s)", core.ErrNotSupported, kind)
}

// JoinStatements renders a multi-statement result as one script.
func JoinStatements(stmts []string) string {
	return strings.Join(stmts, "\n")
}

// base holds the statements whose shape is shared by every dialect.
type base struct {
	d *dialect.Dialect
}

func (b base) Dialect() *dialect.Dialect { return b.d }

func (b base) q(name string) string { return b.d.QuoteIdentifier(name) }

// columnDef renders `"name" TYPE [NOT NULL] [DEFAULT x]`.
func (b base) columnDef(col core.ColumnDefinition) string {
	var buf strings.Builder
	buf.WriteString(b.q(col.Name))
	buf.WriteString(" ")
	buf.WriteString(col.DataType)
	if !col.Nullable {
		buf.WriteString(" NOT NULL")
	}
	if col.DefaultValue != nil {
		buf.WriteString(" DEFAULT ")
		buf.WriteString(*col.DefaultValue)
	}
	return buf.String()
}

func (b base) createTable(req core.CreateTableRequest, def func(core.ColumnDefinition) string, pk []string) (string, error) {
	if req.TableName == "" {
		return "", fmt.Errorf("table name is required")
	}
	if len(req.Columns) == 0 {
		return "", fmt.Errorf("table %s needs at least one column", req.TableName)
	}

	defs := make([]string, 0, len(req.Columns)+1)
	for _, col := range req.Columns {
		if col.Name == "" || col.DataType == "" {
			return "", fmt.Errorf("column definition needs a name and a data type")
		}
		defs = append(defs, def(col))
	}
	if len(pk) > 0 {
		defs = append(defs, "PRIMARY KEY ("+b.d.QuoteIdentifiers(pk)+")")
	}

	return fmt.Sprintf("CREATE TABLE %s (\n  %s\n);", b.q(req.TableName), strings.Join(defs, ",\n  ")), nil
}

func (b base) AddColumn(table string, col core.ColumnDefinition) (string, error) {
	return fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s;", b.q(table), b.columnDef(col)), nil
}

func (b base) DropColumn(table, column string) (string, error) {
	return fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s;", b.q(table), b.q(column)), nil
}

func (b base) CreateIndex(table string, idx core.IndexDefinition) (string, error) {
	if len(idx.Columns) == 0 {
		return "", fmt.Errorf("index %s needs at least one column", idx.Name)
	}
	unique := ""
	if idx.Unique {
		unique = "UNIQUE "
	}
	return fmt.Sprintf("CREATE %sINDEX %s ON %s (%s);",
		unique, b.q(idx.Name), b.q(table), b.d.QuoteIdentifiers(idx.Columns)), nil
}

func (b base) DropIndex(_, index string) (string, error) {
	return fmt.Sprintf("DROP INDEX %s;", b.q(index)), nil
}

func (b base) AddForeignKey(table string, fk core.ForeignKeyDefinition) (string, error) {
	name := fk.Name
	if name == "" {
		name = fmt.Sprintf("fk_%s_%s", table, fk.Column)
	}
	return fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s(%s) ON DELETE %s ON UPDATE %s;",
		b.q(table), b.q(name), b.q(fk.Column), b.q(fk.RefTable), b.q(fk.RefColumn),
		referentialAction(fk.OnDelete), referentialAction(fk.OnUpdate)), nil
}

func (b base) DropConstraint(table, constraint string) (string, error) {
	return fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT %s;", b.q(table), b.q(constraint)), nil
}

func (b base) DropTable(table string) (string, error) {
	return fmt.Sprintf("DROP TABLE %s;", b.q(table)), nil
}

var referentialActions = map[string]string{
	"NO ACTION":   "NO ACTION",
	"RESTRICT":    "RESTRICT",
	"CASCADE":     "CASCADE",
	"SET NULL":    "SET NULL",
	"SET DEFAULT": "SET DEFAULT",
}

// referentialAction normalizes an ON DELETE/ON UPDATE action. Unknown or
// empty input falls back to NO ACTION so free text never reaches the statement.
func referentialAction(action string) string {
	key := strings.Join(strings.Fields(strings.ToUpper(action)), " ")
	if a, ok := referentialActions[key]; ok {
		return a
	}
	return core.DefaultReferentialAction
}
