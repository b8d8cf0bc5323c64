package mongodb

import (
	"net/url"
	"testing"
	"time"

	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/leapstack-labs/leapdb/pkg/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBuildURI(t *testing.T) {
	cfg := core.ConnectionConfig{
		Host:     "db.internal",
		Database: "shop",
		Username: "app",
		Password: "p@ss/word",
	}
	raw := buildURI(cfg, Params{UseTLS: true, AuthSource: "admin"}, engine.OpenOptions{MaxConns: 4, AcquireTimeout: 5 * time.Second})

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "mongodb", u.Scheme)
	assert.Equal(t, "db.internal:27017", u.Host)
	assert.Equal(t, "/shop", u.Path)

	pw, ok := u.User.Password()
	require.True(t, ok)
	assert.Equal(t, "app", u.User.Username())
	assert.Equal(t, "p@ss/word", pw)

	q := u.Query()
	assert.Equal(t, "true", q.Get("directConnection"))
	assert.Equal(t, "true", q.Get("tls"))
	assert.Equal(t, "admin", q.Get("authSource"))
	assert.Equal(t, "60000", q.Get("connectTimeoutMS"), "timeouts have a 60s floor")
	assert.Equal(t, "60000", q.Get("socketTimeoutMS"))
	assert.Equal(t, "4", q.Get("maxPoolSize"))
}

func TestBuildURI_NoCredentials(t *testing.T) {
	raw := buildURI(core.ConnectionConfig{Port: 27018, Username: "only-user"}, Params{}, engine.OpenOptions{MaxConns: 1, AcquireTimeout: 90 * time.Second})

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Nil(t, u.User)
	assert.Equal(t, "localhost:27018", u.Host)
	assert.Empty(t, u.Query().Get("tls"))
	assert.Equal(t, "90000", u.Query().Get("serverSelectionTimeoutMS"))
}

func TestParseParams(t *testing.T) {
	p, err := ParseParams(core.ConnectionConfig{Params: map[string]any{"use_tls": "true", "auth_source": "admin"}})
	require.NoError(t, err)
	assert.True(t, p.UseTLS)
	assert.Equal(t, "admin", p.AuthSource)
}

func TestBuildFilter(t *testing.T) {
	oid := primitive.NewObjectID()

	tests := []struct {
		name    string
		filters []core.ColumnFilter
		logic   core.FilterLogic
		cursor  *core.CursorConfig
		want    bson.D
	}{
		{name: "empty", want: bson.D{}},
		{
			name:    "equals",
			filters: []core.ColumnFilter{{Column: "status", Operator: core.OpEquals, Value: "active"}},
			want:    bson.D{{Key: "status", Value: "active"}},
		},
		{
			name:    "integral json number",
			filters: []core.ColumnFilter{{Column: "age", Operator: core.OpGreaterThan, Value: float64(30)}},
			want:    bson.D{{Key: "age", Value: bson.D{{Key: "$gt", Value: int64(30)}}}},
		},
		{
			name:    "object id",
			filters: []core.ColumnFilter{{Column: "_id", Operator: core.OpEquals, Value: oid.Hex()}},
			want:    bson.D{{Key: "_id", Value: oid}},
		},
		{
			name:    "like is escaped case-insensitive regex",
			filters: []core.ColumnFilter{{Column: "name", Operator: core.OpLike, Value: "a.b"}},
			want: bson.D{{Key: "name", Value: bson.D{
				{Key: "$regex", Value: `a\.b`},
				{Key: "$options", Value: "i"},
			}}},
		},
		{
			name: "null checks joined with or",
			filters: []core.ColumnFilter{
				{Column: "deleted_at", Operator: core.OpIsNull},
				{Column: "email", Operator: core.OpIsNotNull},
			},
			logic: core.LogicOr,
			want: bson.D{{Key: "$or", Value: bson.A{
				bson.D{{Key: "deleted_at", Value: nil}},
				bson.D{{Key: "email", Value: bson.D{{Key: "$ne", Value: nil}}}},
			}}},
		},
		{
			name: "skips missing values and empty in",
			filters: []core.ColumnFilter{
				{Column: "a", Operator: core.OpEquals},
				{Column: "b", Operator: core.OpIn, Value: []any{}},
				{Column: "c", Operator: core.OpIn, Value: []any{"x", "y"}},
				{Column: "d", Operator: core.OpNotEquals, Value: "z"},
			},
			want: bson.D{{Key: "$and", Value: bson.A{
				bson.D{{Key: "c", Value: bson.D{{Key: "$in", Value: bson.A{"x", "y"}}}}},
				bson.D{{Key: "d", Value: bson.D{{Key: "$ne", Value: "z"}}}},
			}}},
		},
		{
			name:   "cursor before",
			cursor: &core.CursorConfig{Column: "seq", Direction: core.CursorBefore, Value: float64(10)},
			want:   bson.D{{Key: "seq", Value: bson.D{{Key: "$lt", Value: int64(10)}}}},
		},
		{
			name:    "cursor combined with filter",
			filters: []core.ColumnFilter{{Column: "kind", Operator: core.OpEquals, Value: "a"}},
			cursor:  &core.CursorConfig{Column: "seq", Direction: core.CursorAfter, Value: float64(2)},
			want: bson.D{{Key: "$and", Value: bson.A{
				bson.D{{Key: "kind", Value: "a"}},
				bson.D{{Key: "seq", Value: bson.D{{Key: "$gt", Value: int64(2)}}}},
			}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildFilter(tt.filters, tt.logic, tt.cursor))
		})
	}
}

func TestConvertValue(t *testing.T) {
	oid := primitive.NewObjectID()
	when := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	dec, err := primitive.ParseDecimal128("12.50")
	require.NoError(t, err)

	tests := []struct {
		name string
		in   any
		want any
	}{
		{"nil", nil, nil},
		{"null", primitive.Null{}, nil},
		{"bool", true, true},
		{"int32 widens", int32(7), int64(7)},
		{"double", 1.5, 1.5},
		{"object id", oid, oid.Hex()},
		{"datetime", primitive.NewDateTimeFromTime(when), "2024-03-01T12:00:00Z"},
		{"decimal", dec, "12.50"},
		{"binary", primitive.Binary{Data: []byte{1, 2, 3}}, "<binary 3 bytes>"},
		{"array", primitive.A{int32(1), "x"}, []any{int64(1), "x"}},
		{"nested doc", bson.M{"n": int32(1), "d": bson.D{{Key: "k", Value: "v"}}}, map[string]any{"n": int64(1), "d": map[string]any{"k": "v"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConvertValue(tt.in))
		})
	}
}

func TestFlatten(t *testing.T) {
	oid := primitive.NewObjectID()
	docs := []bson.M{
		{"_id": oid, "name": "ada", "age": int32(36)},
		{"_id": "custom", "email": "x@example.com"},
	}

	cols, rows := Flatten(docs)
	assert.Equal(t, []string{"_id", "age", "email", "name"}, cols)
	require.Len(t, rows, 2)
	assert.Equal(t, []any{oid.Hex(), int64(36), nil, "ada"}, rows[0])
	assert.Equal(t, []any{"custom", nil, "x@example.com", nil}, rows[1])
}

func TestFlatten_Empty(t *testing.T) {
	cols, rows := Flatten(nil)
	assert.Empty(t, cols)
	assert.Empty(t, rows)
}

func TestRegistered(t *testing.T) {
	assert.True(t, engine.IsRegistered(core.KindMongoDB))
}
