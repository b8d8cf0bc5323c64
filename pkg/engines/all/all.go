// Package all registers every built-in engine. Import it for side effects.
package all

import (
	_ "github.com/leapstack-labs/leapdb/pkg/engines/mongodb"   // register mongodb
	_ "github.com/leapstack-labs/leapdb/pkg/engines/mysql"     // register mysql
	_ "github.com/leapstack-labs/leapdb/pkg/engines/postgres"  // register postgres
	_ "github.com/leapstack-labs/leapdb/pkg/engines/redis"     // register redis
	_ "github.com/leapstack-labs/leapdb/pkg/engines/sqlite"    // register sqlite
	_ "github.com/leapstack-labs/leapdb/pkg/engines/sqlserver" // register sqlserver
)
