package vtree

// Diff compares a previous tree (nil when nothing is mounted yet) against
// the next tree and returns the ordered patches that transform a render
// target holding the previous tree into one consistent with the next.
// mount addresses the container the root lives in.
//
// Diff reads mount identifiers but never writes them; run CopyMounts
// first so matched nodes of next carry their identity forward. Within one
// subtree, the attribute patch precedes child patches, child patches
// appear in child-index order, and a batched reorder follows the
// per-child updates, then creates, then removes.
func Diff(prev, next *Node, mount MountID) []Patch {
	d := &differ{}
	d.root(unwrapLazy(prev), unwrapLazy(next), mount)
	return d.patches
}

type differ struct {
	patches []Patch
}

func (d *differ) emit(p Patch) {
	d.patches = append(d.patches, p)
}

// root applies the mount-point policies: absent or empty roots mount
// nothing, and a keyed collection at the root attaches its children
// directly to the mount point.
func (d *differ) root(prev, next *Node, mount MountID) {
	switch {
	case rootAbsent(prev) && rootAbsent(next):
		// Nothing mounted, nothing to mount.
	case rootAbsent(prev):
		for _, c := range listForm(next) {
			d.create(mount, -1, c)
		}
	case rootAbsent(next):
		for _, c := range listForm(prev) {
			d.remove(mount, c)
		}
	case prev.Kind == KindKeyed || next.Kind == KindKeyed:
		d.children(mount, listForm(prev), listForm(next))
	default:
		d.node(prev, next, mount)
	}
}

// node diffs two nodes occupying the same slot under parent.
func (d *differ) node(prev, next *Node, parent MountID) {
	prev, next = unwrapLazy(prev), unwrapLazy(next)
	if prev.Kind != next.Kind {
		d.replace(parent, prev, next)
		return
	}

	switch prev.Kind {
	case KindText:
		if prev.Text != next.Text {
			d.emit(Patch{Op: OpUpdateText, Target: prev.Mount, Text: next.Text, OldText: prev.Text})
		}
	case KindElement:
		if prev.Tag != next.Tag {
			d.replace(parent, prev, next)
			return
		}
		if ap := DiffAttrs(prev.Attrs, next.Attrs); ap.Materializes() {
			d.emit(Patch{Op: OpUpdateAttrs, Target: prev.Mount, Attrs: ap})
		}
		d.children(prev.Mount, effectiveChildren(prev), effectiveChildren(next))
	case KindEmpty:
		// Placeholders carry no diffable content.
	case KindMapped:
		// The translation is dispatch-time state; content diffs structurally.
		if len(prev.Children) == 1 && len(next.Children) == 1 {
			d.node(prev.Children[0], next.Children[0], parent)
		}
	case KindKeyed:
		d.children(parent, prev.Children, next.Children)
	case KindLazy:
		panic("vtree: Diff reached an unresolved lazy node; call Builder.Resolve first")
	default:
		panic("vtree: Diff reached an invalid node; its region was cleared")
	}
}

// children diffs two child lists under parent: the keyed path when either
// side declares keys, otherwise pairwise over the shared prefix with
// trailing creates or removes.
func (d *differ) children(parent MountID, prev, next []*Node) {
	if hasKeys(prev) || hasKeys(next) {
		d.keyedChildren(parent, prev, next)
		return
	}
	n := len(prev)
	if len(next) < n {
		n = len(next)
	}
	for i := 0; i < n; i++ {
		d.node(prev[i], next[i], parent)
	}
	for _, c := range next[n:] {
		d.create(parent, -1, c)
	}
	for _, c := range prev[n:] {
		d.remove(parent, c)
	}
}

func (d *differ) create(parent MountID, index int, n *Node) {
	d.emit(Patch{Op: OpCreate, Parent: parent, Index: index, Node: n})
}

func (d *differ) remove(parent MountID, n *Node) {
	d.emit(Patch{Op: OpRemove, Parent: parent, Target: n.MountRef()})
}

func (d *differ) replace(parent MountID, prev, next *Node) {
	d.emit(Patch{Op: OpReplace, Parent: parent, Target: prev.MountRef(), Node: next})
}

// rootAbsent reports whether a root mounts nothing: nil, or empty once
// lazy and mapped wrappers are looked through.
func rootAbsent(n *Node) bool {
	if n == nil {
		return true
	}
	m := n.Material()
	return m == nil || m.Kind == KindEmpty
}

// listForm views a root as a child list of the mount point.
func listForm(n *Node) []*Node {
	if u := unwrapLazy(n); u != nil && u.Kind == KindKeyed {
		return u.Children
	}
	return []*Node{n}
}

// effectiveChildren returns an element's child list with a sole keyed
// collection flattened into its members.
func effectiveChildren(n *Node) []*Node {
	if len(n.Children) == 1 {
		if c := unwrapLazy(n.Children[0]); c != nil && c.Kind == KindKeyed {
			return c.Children
		}
	}
	return n.Children
}

// hasKeys returns true if any child carries a reconciliation key.
func hasKeys(children []*Node) bool {
	for _, c := range children {
		if c != nil && c.Key != "" {
			return true
		}
	}
	return false
}

func unwrapLazy(n *Node) *Node {
	for n != nil && n.Kind == KindLazy {
		if n.resolved == nil {
			return n
		}
		n = n.resolved
	}
	return n
}
