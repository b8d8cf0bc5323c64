package dialect

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/leapstack-labs/leapdb/pkg/core"
)

// ErrDialectRequired is returned when a compiler or executor gets a nil dialect.
var ErrDialectRequired = errors.New("dialect is required")

// byFamily maps an engine family to its dialect.
var (
	byFamilyMu sync.RWMutex
	byFamily   = make(map[core.EngineKind]*Dialect)
)

// Register makes d the dialect of its engine family. Registering a second
// dialect for the same family panics.
func Register(d *Dialect) {
	byFamilyMu.Lock()
	defer byFamilyMu.Unlock()
	family := d.Kind.Family()
	if prev, ok := byFamily[family]; ok {
		panic(fmt.Sprintf("dialect: %s already registered for %s", prev.Name, family))
	}
	byFamily[family] = d
}

// ForKind returns the dialect for an engine kind, resolving family aliases
// (cockroachdb to postgres, mariadb to mysql). Key-value and document engines
// have no dialect.
func ForKind(kind core.EngineKind) (*Dialect, bool) {
	byFamilyMu.RLock()
	defer byFamilyMu.RUnlock()
	d, ok := byFamily[kind.Family()]
	return d, ok
}

// List returns the names of all registered dialects, sorted.
func List() []string {
	byFamilyMu.RLock()
	defer byFamilyMu.RUnlock()
	names := make([]string, 0, len(byFamily))
	for _, d := range byFamily {
		names = append(names, d.Name)
	}
	slices.Sort(names)
	return names
}
