package reconcile

import (
	"errors"
	"fmt"

	"github.com/arbor-dev/arbor/pkg/vtree"
)

var (
	// ErrUnresolvedNode is returned when a created subtree still contains
	// a lazy node that never went through Builder.Resolve.
	ErrUnresolvedNode = errors.New("reconcile: subtree contains an unresolved lazy node")

	// ErrInvalidNode is returned when a patch points into a node whose
	// region has been reclaimed.
	ErrInvalidNode = errors.New("reconcile: subtree contains an invalid node")

	// ErrBareCollection is returned when a keyed collection appears where
	// a single materializable node is required.
	ErrBareCollection = errors.New("reconcile: keyed collection outside a child list")

	// ErrUnknownOp is returned for a patch op the applier does not know.
	ErrUnknownOp = errors.New("reconcile: unknown patch op")
)

// ApplyError reports a patch application that stopped partway. Applied
// counts the patches that were fully applied before the failing one; the
// target retains exactly that prefix.
type ApplyError struct {
	Op      vtree.PatchOp // Op of the failing patch
	Patch   vtree.Patch   // The failing patch itself
	Target  vtree.MountID // Node the failing patch addressed
	Applied int           // Fully applied patches before the failure
	Err     error
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("reconcile: %s on %q failed after %d patches: %v",
		e.Op, e.Target, e.Applied, e.Err)
}

func (e *ApplyError) Unwrap() error {
	return e.Err
}
