package ddl

import (
	"fmt"

	"github.com/leapstack-labs/leapdb/pkg/core"
)

type postgresGenerator struct {
	base
}

// CreateTable renders auto-increment columns as SERIAL.
func (g *postgresGenerator) CreateTable(req core.CreateTableRequest) (string, error) {
	return g.createTable(req, func(col core.ColumnDefinition) string {
		if !col.IsAutoIncrement {
			return g.columnDef(col)
		}
		def := g.q(col.Name) + " SERIAL"
		if !col.Nullable {
			def += " NOT NULL"
		}
		return def
	}, req.PrimaryKey)
}

// ModifyColumn emits an optional rename, then the type change, then the
// nullability change.
func (g *postgresGenerator) ModifyColumn(table, oldName string, col core.ColumnDefinition) ([]string, error) {
	t := g.q(table)
	var stmts []string

	if oldName != col.Name {
		stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s RENAME COLUMN %s TO %s;", t, g.q(oldName), g.q(col.Name)))
	}

	stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s TYPE %s;", t, g.q(col.Name), col.DataType))

	nullAction := "SET NOT NULL"
	if col.Nullable {
		nullAction = "DROP NOT NULL"
	}
	stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s %s;", t, g.q(col.Name), nullAction))

	return stmts, nil
}
