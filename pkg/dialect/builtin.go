package dialect

import "github.com/leapstack-labs/leapdb/pkg/core"

// Postgres is the PostgreSQL-family dialect (also CockroachDB and Redshift).
var Postgres = NewDialect("postgres", core.KindPostgres).
	PlaceholderStyle(core.PlaceholderDollar).
	DefaultSchema("public").
	LikeOperator("ILIKE").
	AbortsTxOnError().
	Build()

// MySQL is the MySQL-family dialect (also MariaDB).
var MySQL = NewDialect("mysql", core.KindMySQL).
	Identifiers("`", "`", "``").
	PlaceholderStyle(core.PlaceholderQuestion).
	Build()

// SQLite is the SQLite dialect.
var SQLite = NewDialect("sqlite", core.KindSQLite).
	PlaceholderStyle(core.PlaceholderQuestion).
	DefaultSchema("main").
	Build()

// SQLServer is the SQL Server dialect.
var SQLServer = NewDialect("sqlserver", core.KindSQLServer).
	Identifiers("[", "]", "]]").
	PlaceholderStyle(core.PlaceholderAtP).
	DefaultSchema("dbo").
	Build()

func init() {
	Register(Postgres)
	Register(MySQL)
	Register(SQLite)
	Register(SQLServer)
}
