package config

import "github.com/leapstack-labs/leapdb/pkg/core"

// Default ports per engine family.
const (
	DefaultPostgresPort  = 5432
	DefaultMySQLPort     = 3306
	DefaultSQLServerPort = 1433
	DefaultRedisPort     = 6379
	DefaultMongoDBPort   = 27017
)

// DefaultPort returns the conventional port for kind, or 0 for file engines.
func DefaultPort(kind core.EngineKind) int {
	switch kind.Family() {
	case core.KindPostgres:
		return DefaultPostgresPort
	case core.KindMySQL:
		return DefaultMySQLPort
	case core.KindSQLServer:
		return DefaultSQLServerPort
	case core.KindRedis:
		return DefaultRedisPort
	case core.KindMongoDB:
		return DefaultMongoDBPort
	default:
		return 0
	}
}

// ApplyConnectionDefaults fills the port and, for network engines, the host.
func ApplyConnectionDefaults(e *ConnectionEntry) {
	if e == nil {
		return
	}
	if e.Name == "" {
		e.Name = e.ID
	}
	port := DefaultPort(e.Kind())
	if port == 0 {
		return
	}
	if e.Port == 0 {
		e.Port = port
	}
	if e.Host == "" {
		e.Host = "localhost"
	}
}
