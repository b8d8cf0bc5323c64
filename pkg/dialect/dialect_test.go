package dialect

import (
	"testing"

	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteIdentifier(t *testing.T) {
	tests := []struct {
		name    string
		dialect *Dialect
		input   string
		want    string
	}{
		{"postgres plain", Postgres, "users", `"users"`},
		{"postgres embedded quote", Postgres, `we"ird`, `"we""ird"`},
		{"mysql plain", MySQL, "users", "`users`"},
		{"mysql embedded backtick", MySQL, "a`b", "`a``b`"},
		{"sqlite plain", SQLite, "order", `"order"`},
		{"sqlserver brackets", SQLServer, "a]b", "[a]]b]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.dialect.QuoteIdentifier(tt.input))
		})
	}
}

func TestFormatPlaceholder(t *testing.T) {
	assert.Equal(t, "$1", Postgres.FormatPlaceholder(1))
	assert.Equal(t, "$12", Postgres.FormatPlaceholder(12))
	assert.Equal(t, "?", MySQL.FormatPlaceholder(3))
	assert.Equal(t, "?", SQLite.FormatPlaceholder(1))
	assert.Equal(t, "@p2", SQLServer.FormatPlaceholder(2))
}

func TestForKind(t *testing.T) {
	tests := []struct {
		kind core.EngineKind
		want string
		ok   bool
	}{
		{core.KindPostgres, "postgres", true},
		{core.EngineKind("cockroachdb"), "postgres", true},
		{core.EngineKind("mariadb"), "mysql", true},
		{core.KindSQLite, "sqlite", true},
		{core.KindSQLServer, "sqlserver", true},
		{core.KindRedis, "", false},
		{core.KindMongoDB, "", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			d, ok := ForKind(tt.kind)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, d.Name)
			}
		})
	}
}

func TestLikeOperator(t *testing.T) {
	assert.Equal(t, "ILIKE", Postgres.LikeOperator)
	assert.Equal(t, "LIKE", MySQL.LikeOperator)
	assert.Equal(t, "LIKE", SQLite.LikeOperator)
}

func TestQuoteString(t *testing.T) {
	assert.Equal(t, `'it''s'`, QuoteString("it's"))
	assert.Equal(t, `''`, QuoteString(""))
}

func TestList(t *testing.T) {
	assert.Equal(t, []string{"mysql", "postgres", "sqlite", "sqlserver"}, List())
}

func TestRegister_DuplicateFamilyPanics(t *testing.T) {
	dup := NewDialect("cockroach", core.EngineKind("cockroachdb")).Build()
	assert.PanicsWithValue(t, "dialect: postgres already registered for postgres", func() {
		Register(dup)
	})
}
