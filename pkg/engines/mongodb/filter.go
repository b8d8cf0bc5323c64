package mongodb

import (
	"fmt"
	"regexp"

	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/leapstack-labs/leapdb/pkg/query"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BuildFilter translates column filters and an optional cursor into a BSON
// filter document. Skipping rules match the SQL compiler: a filter missing
// its value, or an empty In list, contributes nothing.
func BuildFilter(filters []core.ColumnFilter, logic core.FilterLogic, cursor *core.CursorConfig) bson.D {
	conds := make(bson.A, 0, len(filters))
	for _, f := range filters {
		if c, ok := condition(f); ok {
			conds = append(conds, c)
		}
	}

	var filter bson.D
	switch {
	case len(conds) == 1:
		filter = conds[0].(bson.D)
	case len(conds) > 1 && logic == core.LogicOr:
		filter = bson.D{{Key: "$or", Value: conds}}
	case len(conds) > 1:
		filter = bson.D{{Key: "$and", Value: conds}}
	}

	if cursor == nil {
		if filter == nil {
			return bson.D{}
		}
		return filter
	}

	op := "$gt"
	if cursor.Direction == core.CursorBefore {
		op = "$lt"
	}
	bound := bson.D{{Key: cursor.Column, Value: bson.D{{Key: op, Value: fieldValue(cursor.Column, cursor.Value)}}}}
	if filter == nil {
		return bound
	}
	return bson.D{{Key: "$and", Value: bson.A{filter, bound}}}
}

func condition(f core.ColumnFilter) (bson.D, bool) {
	if f.Operator.NeedsValue() && f.Value == nil {
		return nil, false
	}

	var expr any
	switch f.Operator {
	case core.OpEquals:
		expr = fieldValue(f.Column, f.Value)
	case core.OpNotEquals:
		expr = bson.D{{Key: "$ne", Value: fieldValue(f.Column, f.Value)}}
	case core.OpGreaterThan:
		expr = bson.D{{Key: "$gt", Value: fieldValue(f.Column, f.Value)}}
	case core.OpLessThan:
		expr = bson.D{{Key: "$lt", Value: fieldValue(f.Column, f.Value)}}
	case core.OpLike:
		expr = bson.D{
			{Key: "$regex", Value: regexp.QuoteMeta(fmt.Sprint(f.Value))},
			{Key: "$options", Value: "i"},
		}
	case core.OpIsNull:
		expr = nil
	case core.OpIsNotNull:
		expr = bson.D{{Key: "$ne", Value: nil}}
	case core.OpIn:
		items, ok := query.ListValues(f.Value)
		if !ok || len(items) == 0 {
			return nil, false
		}
		values := make(bson.A, len(items))
		for i, item := range items {
			values[i] = fieldValue(f.Column, item)
		}
		expr = bson.D{{Key: "$in", Value: values}}
	default:
		return nil, false
	}
	return bson.D{{Key: f.Column, Value: expr}}, true
}

// fieldValue types v for comparison: hex strings against _id become
// ObjectIDs and integral JSON numbers become int64.
func fieldValue(column string, v any) any {
	if s, ok := v.(string); ok && column == IDField {
		if oid, err := primitive.ObjectIDFromHex(s); err == nil {
			return oid
		}
	}
	return query.BindValue(v)
}
