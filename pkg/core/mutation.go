package core

// ChangeType is the kind of a pending row edit.
type ChangeType string

// Change types.
const (
	ChangeInsert ChangeType = "insert"
	ChangeUpdate ChangeType = "update"
	ChangeDelete ChangeType = "delete"
)

// PendingChange is one proposed row-level edit.
// RowID is always carried as text and re-typed when the statement is built.
// OldValue is informational and never used in the WHERE clause.
type PendingChange struct {
	RowID      string     `json:"row_id"`
	Column     string     `json:"column"`
	OldValue   any        `json:"old_value,omitempty"`
	NewValue   any        `json:"new_value"`
	ChangeType ChangeType `json:"change_type"`
}

// ExecuteResult reports the outcome of a change batch.
// Success is true iff Errors is empty; RowsAffected is zero when rolled back.
type ExecuteResult struct {
	Success      bool     `json:"success"`
	RowsAffected int64    `json:"rows_affected"`
	Errors       []string `json:"errors"`
}
