package vtree

// PatchOp identifies one kind of tree transformation.
type PatchOp uint8

const (
	OpCreate      PatchOp = iota + 1 // Materialize a new subtree at an index
	OpRemove                         // Unmount a subtree
	OpReplace                        // Swap a subtree in place
	OpUpdateText                     // Rewrite a text node's content
	OpUpdateAttrs                    // Apply added/removed/changed attribute sets
	OpReorder                        // Batched keyed moves under one parent
)

// String returns the wire-stable name of the op.
func (op PatchOp) String() string {
	switch op {
	case OpCreate:
		return "create"
	case OpRemove:
		return "remove"
	case OpReplace:
		return "replace"
	case OpUpdateText:
		return "update_text"
	case OpUpdateAttrs:
		return "update_attrs"
	case OpReorder:
		return "reorder"
	default:
		return "unknown"
	}
}

// Move is one from→to step of a reorder. From is the child's index at the
// moment the step runs; To is where it lands. Steps apply in order.
type Move struct {
	Target MountID
	From   int
	To     int
}

// AttrChange records one attribute whose value differs between trees.
type AttrChange struct {
	Key string
	Old AttrValue
	New AttrValue
}

// AttrPatch carries the three disjoint attribute sets for one element,
// each sorted by key. Removed keeps the old value so the applier can tell
// handler-valued entries (registry-only) from real target attributes.
type AttrPatch struct {
	Added   []Attr
	Removed []Attr
	Changed []AttrChange
}

// Materializes reports whether applying the patch would change anything
// beyond handler bindings. Views rebuild handler values every cycle, so
// pure rebinds are routine; they are invisible to targets and to the
// wire, and dispatch picks the new bindings up from the committed tree.
func (ap *AttrPatch) Materializes() bool {
	if ap == nil {
		return false
	}
	for _, at := range ap.Added {
		if !at.Value.IsHandler() {
			return true
		}
	}
	for _, at := range ap.Removed {
		if !at.Value.IsHandler() {
			return true
		}
	}
	for _, ch := range ap.Changed {
		if !ch.Old.IsHandler() || !ch.New.IsHandler() {
			return true
		}
	}
	return false
}

// Patch is one atomic instruction transforming a materialized previous
// tree toward the next tree. Field use by op:
//
//	create:       Parent, Index (-1 appends), Node
//	remove:       Parent, Target
//	replace:      Parent, Target, Node
//	update_text:  Target, Text, OldText
//	update_attrs: Target, Attrs
//	reorder:      Parent, Moves
//
// Node points into the next tree; it stays valid until that tree's region
// is cleared, two cycles later.
type Patch struct {
	Op      PatchOp
	Parent  MountID
	Target  MountID
	Index   int
	Node    *Node
	Text    string
	OldText string
	Attrs   *AttrPatch
	Moves   []Move
}
