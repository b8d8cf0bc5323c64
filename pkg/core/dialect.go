package core

// DialectConfig holds the static configuration for a SQL dialect.
// This is pure data; quoting and placeholder helpers live in pkg/dialect.
type DialectConfig struct {
	// Name is the dialect identifier (e.g., "postgres", "mysql")
	Name string

	// Identifiers defines quoting rules
	Identifiers IdentifierConfig

	// DefaultSchema is the catalog schema inspected by default ("public" for Postgres)
	DefaultSchema string

	// Placeholder defines how query parameters are formatted
	Placeholder PlaceholderStyle

	// LikeOperator is the case-insensitive contains operator (ILIKE or LIKE)
	LikeOperator string

	// AbortsTxOnError is true when a failed statement poisons the enclosing
	// transaction until rollback (Postgres).
	AbortsTxOnError bool
}

// PlaceholderStyle defines how query parameters are formatted.
type PlaceholderStyle int

const (
	// PlaceholderQuestion uses ? for all parameters (MySQL, SQLite).
	PlaceholderQuestion PlaceholderStyle = iota
	// PlaceholderDollar uses $1, $2, etc. for parameters (PostgreSQL).
	PlaceholderDollar
	// PlaceholderAtP uses @p1, @p2, etc. for parameters (SQL Server).
	PlaceholderAtP
)

// IdentifierConfig defines how identifiers are quoted.
type IdentifierConfig struct {
	Quote    string // Quote character: ", `, [
	QuoteEnd string // End quote character (usually same as Quote, ] for [)
	Escape   string // Escape sequence for QuoteEnd inside a name: "", ``, ]]
}
