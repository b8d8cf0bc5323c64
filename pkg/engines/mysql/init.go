package mysql

import (
	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/leapstack-labs/leapdb/pkg/engine"
)

func init() {
	engine.Register(core.KindMySQL, Open)
}
