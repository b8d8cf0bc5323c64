package query

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/leapstack-labs/leapdb/pkg/dialect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWhere_SingleEquals(t *testing.T) {
	clause, args := Where(dialect.Postgres, []core.ColumnFilter{
		{Column: "name", Operator: core.OpEquals, Value: "test"},
	}, core.LogicAnd)

	assert.Equal(t, ` WHERE "name" = $1`, clause)
	assert.Equal(t, []any{"test"}, args)
}

func TestWhere_Operators(t *testing.T) {
	tests := []struct {
		name     string
		dialect  *dialect.Dialect
		filter   core.ColumnFilter
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "not equals",
			dialect:  dialect.Postgres,
			filter:   core.ColumnFilter{Column: "status", Operator: core.OpNotEquals, Value: "closed"},
			wantSQL:  ` WHERE "status" != $1`,
			wantArgs: []any{"closed"},
		},
		{
			name:     "like on postgres is ILIKE",
			dialect:  dialect.Postgres,
			filter:   core.ColumnFilter{Column: "email", Operator: core.OpLike, Value: "acme"},
			wantSQL:  ` WHERE "email" ILIKE $1`,
			wantArgs: []any{"%acme%"},
		},
		{
			name:     "like on mysql",
			dialect:  dialect.MySQL,
			filter:   core.ColumnFilter{Column: "email", Operator: core.OpLike, Value: "acme"},
			wantSQL:  " WHERE `email` LIKE ?",
			wantArgs: []any{"%acme%"},
		},
		{
			name:    "is null needs no value",
			dialect: dialect.SQLite,
			filter:  core.ColumnFilter{Column: "deleted_at", Operator: core.OpIsNull},
			wantSQL: ` WHERE "deleted_at" IS NULL`,
		},
		{
			name:    "is not null",
			dialect: dialect.SQLite,
			filter:  core.ColumnFilter{Column: "deleted_at", Operator: core.OpIsNotNull},
			wantSQL: ` WHERE "deleted_at" IS NOT NULL`,
		},
		{
			name:     "in list",
			dialect:  dialect.Postgres,
			filter:   core.ColumnFilter{Column: "id", Operator: core.OpIn, Value: []any{float64(1), float64(2), float64(3)}},
			wantSQL:  ` WHERE "id" IN ($1, $2, $3)`,
			wantArgs: []any{int64(1), int64(2), int64(3)},
		},
		{
			name:     "in typed slice",
			dialect:  dialect.SQLite,
			filter:   core.ColumnFilter{Column: "code", Operator: core.OpIn, Value: []string{"a", "b"}},
			wantSQL:  ` WHERE "code" IN (?, ?)`,
			wantArgs: []any{"a", "b"},
		},
		{
			name:     "greater than",
			dialect:  dialect.Postgres,
			filter:   core.ColumnFilter{Column: "age", Operator: core.OpGreaterThan, Value: float64(21)},
			wantSQL:  ` WHERE "age" > $1`,
			wantArgs: []any{int64(21)},
		},
		{
			name:     "less than keeps fractional floats",
			dialect:  dialect.Postgres,
			filter:   core.ColumnFilter{Column: "score", Operator: core.OpLessThan, Value: 2.5},
			wantSQL:  ` WHERE "score" < $1`,
			wantArgs: []any{2.5},
		},
		{
			name:    "missing value is skipped",
			dialect: dialect.Postgres,
			filter:  core.ColumnFilter{Column: "name", Operator: core.OpEquals},
			wantSQL: "",
		},
		{
			name:    "empty in list is skipped",
			dialect: dialect.Postgres,
			filter:  core.ColumnFilter{Column: "id", Operator: core.OpIn, Value: []any{}},
			wantSQL: "",
		},
		{
			name:    "in with scalar is skipped",
			dialect: dialect.Postgres,
			filter:  core.ColumnFilter{Column: "id", Operator: core.OpIn, Value: "1"},
			wantSQL: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clause, args := Where(tt.dialect, []core.ColumnFilter{tt.filter}, core.LogicAnd)
			assert.Equal(t, tt.wantSQL, clause)
			if diff := cmp.Diff(tt.wantArgs, args); diff != "" {
				t.Errorf("args mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWhere_PlaceholderCountMatchesResolvableFilters(t *testing.T) {
	filters := []core.ColumnFilter{
		{Column: "a", Operator: core.OpEquals, Value: "x"},
		{Column: "b", Operator: core.OpEquals},
		{Column: "c", Operator: core.OpIsNull},
		{Column: "d", Operator: core.OpGreaterThan, Value: float64(5)},
	}

	for _, logic := range []core.FilterLogic{core.LogicAnd, core.LogicOr} {
		clause, args := Where(dialect.Postgres, filters, logic)
		assert.Len(t, args, 2)
		assert.Contains(t, clause, "$2")
		assert.NotContains(t, clause, "$3")

		sep := " AND "
		other := " OR "
		if logic == core.LogicOr {
			sep, other = other, sep
		}
		assert.Equal(t, 2, strings.Count(clause, sep), "three conditions joined uniformly")
		assert.NotContains(t, clause, other)
	}
}

func TestOrderBy(t *testing.T) {
	opts := core.QueryOptions{Sort: &core.SortConfig{Column: "created_at", Direction: core.SortDesc}}
	assert.Equal(t, ` ORDER BY "created_at" DESC`, OrderBy(dialect.Postgres, opts))

	opts.Sort.Direction = core.SortAsc
	assert.Equal(t, " ORDER BY `created_at` ASC", OrderBy(dialect.MySQL, opts))

	assert.Equal(t, "", OrderBy(dialect.Postgres, core.QueryOptions{}))
}

func TestOrderBy_CursorOverridesSort(t *testing.T) {
	opts := core.QueryOptions{
		Sort:   &core.SortConfig{Column: "name", Direction: core.SortAsc},
		Cursor: &core.CursorConfig{Column: "id", Direction: core.CursorBefore, Value: 10},
	}
	assert.Equal(t, ` ORDER BY "id" DESC`, OrderBy(dialect.Postgres, opts))
}

func TestCompile_OffsetPagination(t *testing.T) {
	c, err := Compile(dialect.Postgres, "users", core.QueryOptions{
		Filters: []core.ColumnFilter{{Column: "status", Operator: core.OpEquals, Value: "active"}},
		Sort:    &core.SortConfig{Column: "id", Direction: core.SortAsc},
		Limit:   50,
		Offset:  100,
	})
	require.NoError(t, err)

	assert.Equal(t, `SELECT * FROM "users" WHERE "status" = $1 ORDER BY "id" ASC LIMIT 50 OFFSET 100`, c.SelectSQL)
	assert.Equal(t, []any{"active"}, c.SelectArgs)
	assert.Equal(t, `SELECT COUNT(*) AS count FROM "users" WHERE "status" = $1`, c.CountSQL)
	assert.Equal(t, []any{"active"}, c.CountArgs)
}

func TestCompile_DefaultLimit(t *testing.T) {
	c, err := Compile(dialect.SQLite, "t", core.QueryOptions{})
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "t" LIMIT 100 OFFSET 0`, c.SelectSQL)
	assert.Equal(t, `SELECT COUNT(*) AS count FROM "t"`, c.CountSQL)
	assert.Empty(t, c.CountArgs)
}

func TestCompile_Cursor(t *testing.T) {
	tests := []struct {
		name      string
		opts      core.QueryOptions
		wantSQL   string
		wantArgs  []any
		wantCount string
	}{
		{
			name: "after without filters ignores offset and sort",
			opts: core.QueryOptions{
				Cursor: &core.CursorConfig{Column: "id", Direction: core.CursorAfter, Value: float64(10)},
				Sort:   &core.SortConfig{Column: "name", Direction: core.SortDesc},
				Limit:  25,
				Offset: 500,
			},
			wantSQL:   `SELECT * FROM "items" WHERE "id" > $1 ORDER BY "id" ASC LIMIT 25`,
			wantArgs:  []any{int64(10)},
			wantCount: `SELECT COUNT(*) AS count FROM "items"`,
		},
		{
			name: "before with filters",
			opts: core.QueryOptions{
				Filters: []core.ColumnFilter{{Column: "kind", Operator: core.OpEquals, Value: "book"}},
				Cursor:  &core.CursorConfig{Column: "id", Direction: core.CursorBefore, Value: float64(40)},
				Limit:   10,
			},
			wantSQL:   `SELECT * FROM "items" WHERE "kind" = $1 AND "id" < $2 ORDER BY "id" DESC LIMIT 10`,
			wantArgs:  []any{"book", int64(40)},
			wantCount: `SELECT COUNT(*) AS count FROM "items" WHERE "kind" = $1`,
		},
		{
			name: "or filters are grouped before the cursor",
			opts: core.QueryOptions{
				Filters: []core.ColumnFilter{
					{Column: "kind", Operator: core.OpEquals, Value: "book"},
					{Column: "kind", Operator: core.OpEquals, Value: "dvd"},
				},
				FilterLogic: core.LogicOr,
				Cursor:      &core.CursorConfig{Column: "id", Direction: core.CursorAfter, Value: "x"},
				Limit:       5,
			},
			wantSQL:   `SELECT * FROM "items" WHERE ("kind" = $1 OR "kind" = $2) AND "id" > $3 ORDER BY "id" ASC LIMIT 5`,
			wantArgs:  []any{"book", "dvd", "x"},
			wantCount: `SELECT COUNT(*) AS count FROM "items" WHERE "kind" = $1 OR "kind" = $2`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Compile(dialect.Postgres, "items", tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, c.SelectSQL)
			assert.Equal(t, tt.wantArgs, c.SelectArgs)
			assert.Equal(t, tt.wantCount, c.CountSQL)
			assert.NotContains(t, c.SelectSQL, "OFFSET")
		})
	}
}

func TestCompile_Projection(t *testing.T) {
	c, err := Compile(dialect.MySQL, "users", core.QueryOptions{SelectedColumns: []string{"id", "email"}, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, "SELECT `id`, `email` FROM `users` LIMIT 1 OFFSET 0", c.SelectSQL)
	assert.Equal(t, []string{"id", "email"}, c.Columns)
}

func TestCompile_QuotesHostileIdentifiers(t *testing.T) {
	c, err := Compile(dialect.Postgres, `users"; DROP TABLE x; --`, core.QueryOptions{Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "users""; DROP TABLE x; --" LIMIT 1 OFFSET 0`, c.SelectSQL)
}

func TestCompile_RequiresDialect(t *testing.T) {
	_, err := Compile(nil, "t", core.QueryOptions{})
	require.ErrorIs(t, err, dialect.ErrDialectRequired)
}

func TestBindValue(t *testing.T) {
	assert.Equal(t, int64(3), BindValue(float64(3)))
	assert.Equal(t, 3.25, BindValue(3.25))
	assert.Equal(t, "abc", BindValue("abc"))
	assert.Equal(t, true, BindValue(true))
	assert.Nil(t, BindValue(nil))
	assert.Equal(t, `{"a":1}`, BindValue(map[string]any{"a": float64(1)}))
}
