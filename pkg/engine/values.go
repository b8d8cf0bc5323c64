package engine

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NormalizeValue maps a scanned driver value to the generic value model:
// string, int64, float64, bool or nil. dbType is the column's
// DatabaseTypeName and guides the conversion of raw bytes.
//
// The chain mirrors a fallback extraction: text first, then integers, then
// floats, then booleans; anything unrecognised becomes nil.
func NormalizeValue(v any, dbType string) any {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		return val
	case []byte:
		return bytesValue(val, dbType)
	case int64:
		return val
	case int32:
		return int64(val)
	case int:
		return int64(val)
	case int16:
		return int64(val)
	case int8:
		return int64(val)
	case uint8:
		return int64(val)
	case uint16:
		return int64(val)
	case uint32:
		return int64(val)
	case uint64:
		if val > 1<<63-1 {
			return strconv.FormatUint(val, 10)
		}
		return int64(val)
	case float64:
		return val
	case float32:
		return float64(val)
	case bool:
		return val
	case time.Time:
		return val.Format(time.RFC3339Nano)
	case [16]byte:
		return uuid.UUID(val).String()
	case uuid.UUID:
		return val.String()
	case decimal.Decimal:
		return val.String()
	case fmt.Stringer:
		return val.String()
	case driver.Valuer:
		inner, err := val.Value()
		if err != nil {
			return nil
		}
		return NormalizeValue(inner, dbType)
	default:
		return nil
	}
}

func bytesValue(b []byte, dbType string) any {
	s := string(b)
	switch typ := strings.ToUpper(dbType); {
	case isIntegerType(typ):
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i
		}
	case isFloatType(typ):
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	case isDecimalType(typ):
		if d, err := decimal.NewFromString(s); err == nil {
			return d.String()
		}
	case typ == "UUID" && len(b) == 16:
		if u, err := uuid.FromBytes(b); err == nil {
			return u.String()
		}
	}
	if !utf8.Valid(b) {
		return fmt.Sprintf("<binary %d bytes>", len(b))
	}
	return s
}

func isIntegerType(typ string) bool {
	switch typ {
	case "INT", "INTEGER", "TINYINT", "SMALLINT", "MEDIUMINT", "BIGINT",
		"UNSIGNED INT", "UNSIGNED TINYINT", "UNSIGNED SMALLINT", "UNSIGNED MEDIUMINT", "UNSIGNED BIGINT",
		"INT2", "INT4", "INT8", "YEAR":
		return true
	}
	return false
}

func isFloatType(typ string) bool {
	switch typ {
	case "FLOAT", "DOUBLE", "REAL", "FLOAT4", "FLOAT8":
		return true
	}
	return false
}

func isDecimalType(typ string) bool {
	return typ == "DECIMAL" || typ == "NUMERIC" || typ == "MONEY"
}

// ScanRows drains rows into column names and generic value rows.
// The caller still owns rows and must close it.
func ScanRows(rows *sql.Rows) ([]string, [][]any, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read columns: %w", err)
	}

	dbTypes := make([]string, len(cols))
	if types, err := rows.ColumnTypes(); err == nil {
		for i, ct := range types {
			dbTypes[i] = ct.DatabaseTypeName()
		}
	}

	result := make([][]any, 0)
	for rows.Next() {
		values := make([]any, len(cols))
		valuePtrs := make([]any, len(cols))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make([]any, len(cols))
		for i, val := range values {
			row[i] = NormalizeValue(val, dbTypes[i])
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return cols, result, nil
}
