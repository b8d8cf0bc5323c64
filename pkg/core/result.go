package core

// TableDataResponse is one page of table data.
// TotalCount is nil iff SkipCount was requested. NextCursor is nil unless
// cursor pagination was used and the page was non-empty.
type TableDataResponse struct {
	Columns    []string `json:"columns"`
	Rows       [][]any  `json:"rows"`
	TotalCount *int64   `json:"total_count,omitempty"`
	NextCursor any      `json:"next_cursor,omitempty"`
}

// QueryResult is the tabular result of an ad-hoc statement.
type QueryResult struct {
	Columns  []string `json:"columns"`
	Rows     [][]any  `json:"rows"`
	RowCount int      `json:"row_count"`
}

// ExplainResult holds one plan line per entry.
type ExplainResult struct {
	Plan []string `json:"plan"`
}
