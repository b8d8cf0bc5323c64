package engine

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeValue(t *testing.T) {
	u := uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")
	ts := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

	tests := []struct {
		name   string
		input  any
		dbType string
		want   any
	}{
		{"nil", nil, "", nil},
		{"string", "abc", "TEXT", "abc"},
		{"int32 widens", int32(5), "INT4", int64(5)},
		{"uint8 widens", uint8(200), "TINYINT", int64(200)},
		{"float32 widens", float32(1.5), "REAL", float64(1.5)},
		{"bool", true, "BOOL", true},
		{"time", ts, "TIMESTAMP", "2024-03-01T12:30:00Z"},
		{"uuid array", [16]byte(u), "UUID", u.String()},
		{"uuid value", u, "UUID", u.String()},
		{"decimal", decimal.RequireFromString("12.340"), "NUMERIC", "12.34"},
		{"mysql int bytes", []byte("42"), "BIGINT", int64(42)},
		{"mysql unsigned bytes", []byte("7"), "UNSIGNED INT", int64(7)},
		{"mysql double bytes", []byte("2.5"), "DOUBLE", 2.5},
		{"mysql decimal bytes", []byte("10.10"), "DECIMAL", "10.1"},
		{"text bytes", []byte("hello"), "VARCHAR", "hello"},
		{"uuid bytes", u[:], "UUID", u.String()},
		{"binary bytes", []byte{0xff, 0xfe, 0x00}, "BLOB", "<binary 3 bytes>"},
		{"unknown type", struct{}{}, "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeValue(tt.input, tt.dbType))
		})
	}
}

func TestNormalizeValue_HugeUnsigned(t *testing.T) {
	assert.Equal(t, "18446744073709551615", NormalizeValue(uint64(1<<64-1), "UNSIGNED BIGINT"))
}

func TestNextCursor(t *testing.T) {
	cols := []string{"id", "name"}
	rows := [][]any{{int64(1), "a"}, {int64(2), "b"}}

	assert.Equal(t, int64(2), NextCursor(cols, rows, "id"))
	assert.Nil(t, NextCursor(cols, rows, "missing"))
	assert.Nil(t, NextCursor(cols, nil, "id"))
}

func TestIsSchemaChange(t *testing.T) {
	tests := []struct {
		sql  string
		want bool
	}{
		{"CREATE TABLE t (id int)", true},
		{"  drop table t", true},
		{"\nAlter table t add column x int", true},
		{"TRUNCATE t", true},
		{"SELECT * FROM created", false},
		{"INSERT INTO t VALUES (1)", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.sql, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSchemaChange(tt.sql))
		})
	}
}
