package core

import "strings"

// EngineKind identifies one database technology.
type EngineKind string

// Engine kinds. Family aliases (mariadb, cockroachdb, redshift) resolve to
// the kind whose pool and dialect they share.
const (
	KindPostgres  EngineKind = "postgres"
	KindMySQL     EngineKind = "mysql"
	KindSQLite    EngineKind = "sqlite"
	KindSQLServer EngineKind = "sqlserver"
	KindRedis     EngineKind = "redis"
	KindMongoDB   EngineKind = "mongodb"
)

var kindAliases = map[string]EngineKind{
	"postgres":    KindPostgres,
	"postgresql":  KindPostgres,
	"cockroachdb": KindPostgres,
	"redshift":    KindPostgres,
	"mysql":       KindMySQL,
	"mariadb":     KindMySQL,
	"sqlite":      KindSQLite,
	"sqlite3":     KindSQLite,
	"sqlserver":   KindSQLServer,
	"mssql":       KindSQLServer,
	"redis":       KindRedis,
	"mongodb":     KindMongoDB,
	"mongo":       KindMongoDB,
}

// ParseEngineKind resolves a configured type name (case-insensitive, aliases
// allowed) to its engine kind.
func ParseEngineKind(name string) (EngineKind, bool) {
	k, ok := kindAliases[strings.ToLower(strings.TrimSpace(name))]
	return k, ok
}

// Family returns the canonical kind for k, resolving aliases.
func (k EngineKind) Family() EngineKind {
	if resolved, ok := ParseEngineKind(string(k)); ok {
		return resolved
	}
	return k
}

// IsRelational reports whether the engine speaks SQL.
func (k EngineKind) IsRelational() bool {
	switch k.Family() {
	case KindPostgres, KindMySQL, KindSQLite, KindSQLServer:
		return true
	default:
		return false
	}
}

// SupportsChanges reports whether pending-change batches can be applied.
// SQL Server is relational but its pool is lazy and holds no transaction.
func (k EngineKind) SupportsChanges() bool {
	switch k.Family() {
	case KindPostgres, KindMySQL, KindSQLite:
		return true
	default:
		return false
	}
}

func (k EngineKind) String() string {
	return string(k)
}
