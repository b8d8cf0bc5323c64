package mutation

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatValue renders v as a SQL literal.
//
//	nil              -> NULL
//	bool             -> TRUE / FALSE
//	numbers          -> bare literal (no exponent notation)
//	string           -> single-quoted, embedded quotes doubled
//	maps and slices  -> JSON text, quoted like a string
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case bool:
		if val {
			return "TRUE"
		}
		return "FALSE"
	case string:
		return quote(val)
	case json.Number:
		if d, err := decimal.NewFromString(val.String()); err == nil {
			return d.String()
		}
		return quote(val.String())
	case decimal.Decimal:
		return val.String()
	case float64:
		return formatFloat(val)
	case float32:
		return formatFloat(float64(val))
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", val)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		raw, err := json.Marshal(v)
		if err != nil {
			return quote(fmt.Sprint(v))
		}
		return quote(string(raw))
	default:
		return quote(fmt.Sprint(v))
	}
}

func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "NULL"
	}
	return decimal.NewFromFloat(f).String()
}

// FormatPrimaryKey renders a primary-key value carried as text. Base-10
// decimal numbers are emitted bare; anything else (UUIDs, codes, hex) is quoted.
func FormatPrimaryKey(pk string) string {
	if _, err := decimal.NewFromString(pk); err == nil {
		return pk
	}
	return quote(pk)
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
