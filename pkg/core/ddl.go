package core

// DefaultReferentialAction is used when a foreign key leaves ON DELETE/ON UPDATE unset.
const DefaultReferentialAction = "NO ACTION"

// ColumnDefinition describes a column to create or modify.
// DefaultValue is spliced verbatim, so string defaults must carry their own quotes.
type ColumnDefinition struct {
	Name            string  `json:"name"`
	DataType        string  `json:"data_type"`
	Nullable        bool    `json:"nullable"`
	DefaultValue    *string `json:"default_value,omitempty"`
	IsPrimaryKey    bool    `json:"is_primary_key"`
	IsAutoIncrement bool    `json:"is_auto_increment"`
}

// CreateTableRequest describes a new table.
type CreateTableRequest struct {
	TableName  string             `json:"table_name"`
	Columns    []ColumnDefinition `json:"columns"`
	PrimaryKey []string           `json:"primary_key,omitempty"`
}

// IndexDefinition describes an index to create.
type IndexDefinition struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
	Unique  bool     `json:"unique"`
}

// ForeignKeyDefinition describes a foreign key to add.
// An empty Name generates fk_{table}_{column}.
type ForeignKeyDefinition struct {
	Name      string `json:"name,omitempty"`
	Column    string `json:"column"`
	RefTable  string `json:"ref_table"`
	RefColumn string `json:"ref_column"`
	OnDelete  string `json:"on_delete,omitempty"`
	OnUpdate  string `json:"on_update,omitempty"`
}
