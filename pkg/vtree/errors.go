package vtree

import (
	"errors"
	"fmt"
)

// Construction failures. These surface through Builder.Err before any
// diffing happens; a tree whose builder reports an error must not be
// diffed or applied.
var (
	ErrDuplicateKey   = errors.New("vtree: duplicate key in keyed collection")
	ErrMissingKey     = errors.New("vtree: keyed collection child has no key")
	ErrKeyedPlacement = errors.New("vtree: keyed collection must be an element's only child")
	ErrLazyIdentity   = errors.New("vtree: lazy node requires a comparable identity")
	ErrLazyProducer   = errors.New("vtree: lazy node requires a producer")
	ErrLazyCycle      = errors.New("vtree: lazy node resolves to itself")
	ErrMapFunc        = errors.New("vtree: mapped node requires a translation func")
	ErrMapChild       = errors.New("vtree: mapped node requires a child")
)

// ConstructionError reports a malformed node, naming the builder
// operation and, when relevant, the offending key.
type ConstructionError struct {
	Op  string // Builder operation, e.g. "Keyed"
	Key string // Offending reconciliation key, if any
	Err error
}

// Error implements the error interface.
func (e *ConstructionError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("construct %s (key %q): %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("construct %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying sentinel.
func (e *ConstructionError) Unwrap() error {
	return e.Err
}
