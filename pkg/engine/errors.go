package engine

import (
	"fmt"

	"github.com/leapstack-labs/leapdb/pkg/core"
)

func fmtUnsupported(kind core.EngineKind, op string) error {
	return fmt.Errorf("%s %w (%s)", op, core.ErrNotSupported, kind)
}

// UnknownEngineError is returned when an unregistered engine kind is requested.
type UnknownEngineError struct {
	Kind      string
	Available []string
}

func (e *UnknownEngineError) Error() string {
	return fmt.Sprintf("unknown engine type %q\nAvailable engines: %v\nHint: Check the connection type in leapdb.yaml", e.Kind, e.Available)
}
