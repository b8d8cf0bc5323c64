package ddl

import (
	"fmt"

	"github.com/leapstack-labs/leapdb/pkg/core"
)

type mysqlGenerator struct {
	base
}

// CreateTable appends AUTO_INCREMENT to auto-increment columns.
func (g *mysqlGenerator) CreateTable(req core.CreateTableRequest) (string, error) {
	return g.createTable(req, func(col core.ColumnDefinition) string {
		def := g.columnDef(col)
		if col.IsAutoIncrement {
			def += " AUTO_INCREMENT"
		}
		return def
	}, req.PrimaryKey)
}

// ModifyColumn is a single CHANGE COLUMN carrying the full new definition.
func (g *mysqlGenerator) ModifyColumn(table, oldName string, col core.ColumnDefinition) ([]string, error) {
	return []string{
		fmt.Sprintf("ALTER TABLE %s CHANGE COLUMN %s %s;", g.q(table), g.q(oldName), g.columnDef(col)),
	}, nil
}

func (g *mysqlGenerator) DropIndex(table, index string) (string, error) {
	return fmt.Sprintf("DROP INDEX %s ON %s;", g.q(index), g.q(table)), nil
}

func (g *mysqlGenerator) DropConstraint(table, constraint string) (string, error) {
	return fmt.Sprintf("ALTER TABLE %s DROP FOREIGN KEY %s;", g.q(table), g.q(constraint)), nil
}
