package core

// ColumnInfo describes one column as reported by the engine catalog.
// DataType is the engine-native type name, not normalized.
type ColumnInfo struct {
	Name         string `json:"name"`
	DataType     string `json:"data_type"`
	Nullable     bool   `json:"nullable"`
	MaxLength    *int64 `json:"max_length,omitempty"`
	IsPrimaryKey bool   `json:"is_primary_key"`
}

// ForeignKeyInfo describes one foreign-key column reference.
type ForeignKeyInfo struct {
	ConstraintName   string `json:"constraint_name"`
	ColumnName       string `json:"column_name"`
	ReferencedTable  string `json:"referenced_table"`
	ReferencedColumn string `json:"referenced_column"`
}

// IndexInfo describes an index. Columns may be empty when the engine
// catalog does not expose them cheaply (SQLite).
type IndexInfo struct {
	Name      string   `json:"name"`
	Columns   []string `json:"columns"`
	Unique    bool     `json:"unique"`
	IndexType string   `json:"index_type,omitempty"`
}

// TableInfo is a table together with its columns.
type TableInfo struct {
	Name    string       `json:"name"`
	Columns []ColumnInfo `json:"columns"`
}

// DatabaseSchema is a full snapshot of one connection's schema.
type DatabaseSchema struct {
	Tables    []TableInfo `json:"tables"`
	Views     []string    `json:"views"`
	Functions []string    `json:"functions"`
}

// TableListOptions narrows a table listing.
// Search is a case-insensitive substring; Limit <= 0 means no limit.
type TableListOptions struct {
	Search string
	Limit  int
	Offset int
}
