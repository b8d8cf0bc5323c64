package core

import (
	"errors"
	"fmt"
)

// Sentinel causes wrapped by the typed errors below.
var (
	ErrNotConnected = errors.New("not connected")
	ErrNotSupported = errors.New("not supported for this database type")
	ErrReadOnly     = errors.New("connection is read-only")
)

// ConnectionError reports pool creation, authentication or network failure,
// or an operation attempted on an id with no live pool.
type ConnectionError struct {
	ConnectionID string
	Err          error
}

// NewConnectionError wraps err for the given connection id.
func NewConnectionError(id string, err error) *ConnectionError {
	return &ConnectionError{ConnectionID: id, Err: err}
}

func (e *ConnectionError) Error() string {
	if e.ConnectionID == "" {
		return fmt.Sprintf("connection failed: %v", e.Err)
	}
	return fmt.Sprintf("connection failed [%s]: %v", e.ConnectionID, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// QueryError reports malformed SQL, constraint violations or an operation the
// engine does not support. The driver message is kept unmodified in Err.
type QueryError struct {
	Err error
}

// NewQueryError wraps err as a QueryError.
func NewQueryError(err error) *QueryError {
	return &QueryError{Err: err}
}

// QueryErrorf builds a QueryError from a format string.
func QueryErrorf(format string, args ...any) *QueryError {
	return &QueryError{Err: fmt.Errorf(format, args...)}
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query error: %v", e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// NotFoundError reports a referenced connection id that is absent.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// IsNotSupported reports whether err signals an unsupported engine operation.
func IsNotSupported(err error) bool {
	return errors.Is(err, ErrNotSupported)
}
