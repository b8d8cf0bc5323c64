package ddl

import (
	"errors"
	"slices"

	"github.com/leapstack-labs/leapdb/pkg/core"
)

// ErrSQLiteModifyColumn is returned for column changes SQLite cannot express.
var ErrSQLiteModifyColumn = errors.New( //nolint:staticcheck // shown to users verbatim
	"SQLite does not support modifying columns. Recreate the table.")

type sqliteGenerator struct {
	base
}

// CreateTable renders an auto-increment column as INTEGER PRIMARY KEY
// AUTOINCREMENT. That column is the table's key, so it is left out of any
// table-level PRIMARY KEY clause.
func (g *sqliteGenerator) CreateTable(req core.CreateTableRequest) (string, error) {
	pk := req.PrimaryKey
	for _, col := range req.Columns {
		if col.IsAutoIncrement {
			pk = slices.DeleteFunc(slices.Clone(pk), func(c string) bool { return c == col.Name })
		}
	}

	return g.createTable(req, func(col core.ColumnDefinition) string {
		if col.IsAutoIncrement {
			return g.q(col.Name) + " INTEGER PRIMARY KEY AUTOINCREMENT"
		}
		return g.columnDef(col)
	}, pk)
}

func (g *sqliteGenerator) ModifyColumn(string, string, core.ColumnDefinition) ([]string, error) {
	return nil, core.NewQueryError(ErrSQLiteModifyColumn)
}
