// Package query compiles structured QueryOptions into dialect-specific SQL.
//
// Filter and cursor values are always bound as parameters; identifiers are
// quoted by the dialect. The compiler never talks to a database.
package query

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/leapstack-labs/leapdb/pkg/dialect"
)

// Compiled holds the statements produced for one table read.
type Compiled struct {
	// Columns is the projection; nil means every column (*).
	Columns []string

	SelectSQL  string
	SelectArgs []any

	// CountSQL shares the filter WHERE clause with SelectSQL but carries no
	// cursor bound and no pagination.
	CountSQL  string
	CountArgs []any
}

// Compile builds the SELECT and COUNT statements for table under opts.
func Compile(d *dialect.Dialect, table string, opts core.QueryOptions) (*Compiled, error) {
	if d == nil {
		return nil, dialect.ErrDialectRequired
	}

	b := &builder{d: d}
	where := b.where(opts.Filters, opts.FilterLogic)
	countArgs := append([]any(nil), b.args...)

	page := opts.Pagination()
	if cp, ok := page.(core.CursorPagination); ok {
		where = b.withCursor(where, cp.Cursor)
	}

	projection := "*"
	if len(opts.SelectedColumns) > 0 {
		projection = d.QuoteIdentifiers(opts.SelectedColumns)
	}

	quotedTable := d.QuoteIdentifier(table)
	selectSQL := "SELECT " + projection + " FROM " + quotedTable + where + OrderBy(d, opts) + Paginate(page)
	countSQL := "SELECT COUNT(*) AS count FROM " + quotedTable + b.baseWhere

	return &Compiled{
		Columns:    opts.SelectedColumns,
		SelectSQL:  selectSQL,
		SelectArgs: b.args,
		CountSQL:   countSQL,
		CountArgs:  countArgs,
	}, nil
}

// Where compiles only the filter WHERE clause, with a leading space, or ""
// when no filter resolves to a condition.
func Where(d *dialect.Dialect, filters []core.ColumnFilter, logic core.FilterLogic) (string, []any) {
	b := &builder{d: d}
	clause := b.where(filters, logic)
	return clause, b.args
}

// OrderBy returns the ORDER BY clause with a leading space, or "".
// A cursor forces ordering on its column and overrides any explicit sort.
func OrderBy(d *dialect.Dialect, opts core.QueryOptions) string {
	if opts.Cursor != nil {
		dir := "ASC"
		if opts.Cursor.Direction == core.CursorBefore {
			dir = "DESC"
		}
		return " ORDER BY " + d.QuoteIdentifier(opts.Cursor.Column) + " " + dir
	}
	if opts.Sort != nil && opts.Sort.Column != "" {
		dir := "ASC"
		if opts.Sort.Direction == core.SortDesc {
			dir = "DESC"
		}
		return " ORDER BY " + d.QuoteIdentifier(opts.Sort.Column) + " " + dir
	}
	return ""
}

// Paginate returns the LIMIT clause. Cursor pages never carry OFFSET.
func Paginate(p core.Pagination) string {
	switch page := p.(type) {
	case core.CursorPagination:
		return fmt.Sprintf(" LIMIT %d", page.Limit)
	case core.OffsetPagination:
		return fmt.Sprintf(" LIMIT %d OFFSET %d", page.Limit, page.Offset)
	default:
		return ""
	}
}

type builder struct {
	d         *dialect.Dialect
	args      []any
	baseWhere string
	orGroup   bool
}

func (b *builder) bind(v any) string {
	b.args = append(b.args, BindValue(v))
	return b.d.FormatPlaceholder(len(b.args))
}

func (b *builder) where(filters []core.ColumnFilter, logic core.FilterLogic) string {
	conditions := make([]string, 0, len(filters))
	for _, f := range filters {
		if cond, ok := b.condition(f); ok {
			conditions = append(conditions, cond)
		}
	}
	if len(conditions) == 0 {
		return ""
	}

	sep := " AND "
	if logic == core.LogicOr {
		sep = " OR "
		b.orGroup = len(conditions) > 1
	}
	b.baseWhere = " WHERE " + strings.Join(conditions, sep)
	return b.baseWhere
}

func (b *builder) condition(f core.ColumnFilter) (string, bool) {
	if f.Operator.NeedsValue() && f.Value == nil {
		return "", false
	}

	col := b.d.QuoteIdentifier(f.Column)
	switch f.Operator {
	case core.OpEquals:
		return col + " = " + b.bind(f.Value), true
	case core.OpNotEquals:
		return col + " != " + b.bind(f.Value), true
	case core.OpLike:
		return col + " " + b.d.LikeOperator + " " + b.bind(likePattern(f.Value)), true
	case core.OpIsNull:
		return col + " IS NULL", true
	case core.OpIsNotNull:
		return col + " IS NOT NULL", true
	case core.OpIn:
		items, ok := ListValues(f.Value)
		if !ok || len(items) == 0 {
			return "", false
		}
		placeholders := make([]string, len(items))
		for i, item := range items {
			placeholders[i] = b.bind(item)
		}
		return col + " IN (" + strings.Join(placeholders, ", ") + ")", true
	case core.OpGreaterThan:
		return col + " > " + b.bind(f.Value), true
	case core.OpLessThan:
		return col + " < " + b.bind(f.Value), true
	default:
		return "", false
	}
}

// withCursor appends the keyset bound with AND, parenthesising an OR group so
// the cursor scopes every filter.
func (b *builder) withCursor(where string, c core.CursorConfig) string {
	op := ">"
	if c.Direction == core.CursorBefore {
		op = "<"
	}
	cond := b.d.QuoteIdentifier(c.Column) + " " + op + " " + b.bind(c.Value)
	if where == "" {
		return " WHERE " + cond
	}
	filters := strings.TrimPrefix(where, " WHERE ")
	if b.orGroup {
		filters = "(" + filters + ")"
	}
	return " WHERE " + filters + " AND " + cond
}

func likePattern(v any) string {
	if s, ok := v.(string); ok {
		return "%" + s + "%"
	}
	return "%" + fmt.Sprint(v) + "%"
}

// ListValues expands an In operand into its items. ok is false when v is
// not a list.
func ListValues(v any) ([]any, bool) {
	if items, ok := v.([]any); ok {
		return items, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}

// BindValue normalizes a decoded JSON value into a driver-friendly argument.
// Integral floats become int64 so they compare cleanly against integer
// columns; composite values are passed as their JSON text.
func BindValue(v any) any {
	switch val := v.(type) {
	case float64:
		if val == math.Trunc(val) && math.Abs(val) < 1<<53 {
			return int64(val)
		}
		return val
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case map[string]any, []any:
		raw, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(raw)
	default:
		return v
	}
}
