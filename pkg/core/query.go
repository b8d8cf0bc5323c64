package core

// DefaultLimit is the page size used when QueryOptions.Limit is unset.
const DefaultLimit = 100

// FilterOperator is the comparison applied by a ColumnFilter.
type FilterOperator string

// Filter operators.
const (
	OpEquals      FilterOperator = "equals"
	OpNotEquals   FilterOperator = "notEquals"
	OpLike        FilterOperator = "like"
	OpIsNull      FilterOperator = "isNull"
	OpIsNotNull   FilterOperator = "isNotNull"
	OpIn          FilterOperator = "in"
	OpGreaterThan FilterOperator = "greaterThan"
	OpLessThan    FilterOperator = "lessThan"
)

// NeedsValue reports whether the operator is skipped when the filter has no value.
func (op FilterOperator) NeedsValue() bool {
	return op != OpIsNull && op != OpIsNotNull
}

// ColumnFilter is one condition on a column.
type ColumnFilter struct {
	Column   string         `json:"column"`
	Operator FilterOperator `json:"operator"`
	Value    any            `json:"value,omitempty"`
}

// FilterLogic joins all filters uniformly.
type FilterLogic string

// Filter logic values. The zero value behaves as And.
const (
	LogicAnd FilterLogic = "and"
	LogicOr  FilterLogic = "or"
)

// SortDirection orders a column ascending or descending.
type SortDirection string

// Sort directions.
const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortConfig is an explicit ORDER BY column.
type SortConfig struct {
	Column    string        `json:"column"`
	Direction SortDirection `json:"direction"`
}

// CursorDirection selects rows after or before the cursor value.
type CursorDirection string

// Cursor directions.
const (
	CursorAfter  CursorDirection = "after"
	CursorBefore CursorDirection = "before"
)

// CursorConfig drives keyset pagination on Column.
type CursorConfig struct {
	Column    string          `json:"column"`
	Direction CursorDirection `json:"direction"`
	Value     any             `json:"value"`
}

// QueryOptions describes a filtered, paginated table read.
type QueryOptions struct {
	Filters         []ColumnFilter `json:"filters,omitempty"`
	FilterLogic     FilterLogic    `json:"filter_logic,omitempty"`
	Sort            *SortConfig    `json:"sort,omitempty"`
	Cursor          *CursorConfig  `json:"cursor,omitempty"`
	Limit           int            `json:"limit,omitempty"`
	Offset          int            `json:"offset,omitempty"`
	SkipCount       bool           `json:"skip_count,omitempty"`
	SelectedColumns []string       `json:"selected_columns,omitempty"`
}

// EffectiveLimit returns Limit, or DefaultLimit when unset.
func (o QueryOptions) EffectiveLimit() int {
	if o.Limit <= 0 {
		return DefaultLimit
	}
	return o.Limit
}

// Pagination is either OffsetPagination or CursorPagination, never both.
type Pagination interface {
	PageLimit() int
}

// OffsetPagination pages with LIMIT/OFFSET.
type OffsetPagination struct {
	Limit  int
	Offset int
}

// PageLimit implements Pagination.
func (p OffsetPagination) PageLimit() int { return p.Limit }

// CursorPagination pages with a keyset bound on a column.
type CursorPagination struct {
	Cursor CursorConfig
	Limit  int
}

// PageLimit implements Pagination.
func (p CursorPagination) PageLimit() int { return p.Limit }

// Pagination resolves the paging strategy. A cursor wins over offset and sort.
func (o QueryOptions) Pagination() Pagination {
	if o.Cursor != nil {
		return CursorPagination{Cursor: *o.Cursor, Limit: o.EffectiveLimit()}
	}
	offset := o.Offset
	if offset < 0 {
		offset = 0
	}
	return OffsetPagination{Limit: o.EffectiveLimit(), Offset: offset}
}
