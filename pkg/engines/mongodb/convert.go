package mongodb

import (
	"fmt"
	"slices"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IDField is the document primary key.
const IDField = "_id"

// ConvertValue maps a decoded BSON value to the generic value model.
// Documents become map[string]any and arrays []any, converted recursively.
func ConvertValue(v any) any {
	switch val := v.(type) {
	case nil, primitive.Null, primitive.Undefined:
		return nil
	case bool, string, int64, float64:
		return val
	case int32:
		return int64(val)
	case primitive.ObjectID:
		return val.Hex()
	case primitive.DateTime:
		return val.Time().UTC().Format(time.RFC3339Nano)
	case time.Time:
		return val.UTC().Format(time.RFC3339Nano)
	case primitive.Decimal128:
		return val.String()
	case primitive.Binary:
		return fmt.Sprintf("<binary %d bytes>", len(val.Data))
	case []byte:
		return fmt.Sprintf("<binary %d bytes>", len(val))
	case primitive.Timestamp:
		return fmt.Sprintf("Timestamp(%d, %d)", val.T, val.I)
	case primitive.Regex:
		return "/" + val.Pattern + "/" + val.Options
	case primitive.A:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = ConvertValue(item)
		}
		return out
	case []any:
		return ConvertValue(primitive.A(val))
	case bson.M:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = ConvertValue(item)
		}
		return out
	case bson.D:
		out := make(map[string]any, len(val))
		for _, e := range val {
			out[e.Key] = ConvertValue(e.Value)
		}
		return out
	default:
		return fmt.Sprint(val)
	}
}

// Flatten turns a page of documents into columns and rows. Columns are the
// sorted union of keys with _id first; a key missing from a document is nil.
func Flatten(docs []bson.M) ([]string, [][]any) {
	seen := make(map[string]struct{})
	for _, doc := range docs {
		for k := range doc {
			seen[k] = struct{}{}
		}
	}

	cols := make([]string, 0, len(seen))
	_, hasID := seen[IDField]
	for k := range seen {
		if k != IDField {
			cols = append(cols, k)
		}
	}
	slices.Sort(cols)
	if hasID {
		cols = append([]string{IDField}, cols...)
	}

	rows := make([][]any, 0, len(docs))
	for _, doc := range docs {
		row := make([]any, len(cols))
		for i, c := range cols {
			row[i] = ConvertValue(doc[c])
		}
		rows = append(rows, row)
	}
	return cols, rows
}
