package vtree

// Kind is the node type discriminator.
type Kind uint8

const (
	KindInvalid Kind = iota // Zero value; appears when a cleared region is read
	KindElement             // <div>, <button>, etc.
	KindText                // Plain text node
	KindEmpty               // Renders nothing (placeholder in a child slot)
	KindKeyed               // Ordered (key, subtree) collection
	KindLazy                // Deferred subtree with a memoization identity
	KindMapped              // Subtree in a different message domain
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindEmpty:
		return "Empty"
	case KindKeyed:
		return "Keyed"
	case KindLazy:
		return "Lazy"
	case KindMapped:
		return "Mapped"
	default:
		return "Invalid"
	}
}

// MountID addresses one materialized node on a render target. The target
// (or the patch applier driving it) mints identifiers at application time;
// the differ only ever reads them.
type MountID string

// Node is one vertex of a renderable tree.
//
// Nodes are plain values allocated from an Arena. Once a tree has been
// handed to Diff it must be treated as immutable; the only later writes
// are mount identifiers, filled in by CopyMounts and by the patch applier.
type Node struct {
	Kind     Kind
	Tag      string  // Element tag name (e.g., "div")
	Key      string  // Reconciliation key
	Attrs    Attrs   // Attributes and event handlers
	Children []*Node // Element and Keyed children; Mapped stores its child at index 0
	Text     string  // For KindText

	LazyID   any           // Memoization identity for KindLazy
	produce  func() *Node  // Deferred subtree producer for KindLazy
	resolved *Node         // Resolution result, set once per cycle
	mapFn    func(any) any // Child-to-parent message translation for KindMapped

	Mount MountID // Identity on the render target, empty until materialized
}

// Attrs holds an element's attributes keyed by name. Event handlers use
// the "on"-prefixed form of their slot ("onclick", "oninput").
type Attrs map[string]AttrValue

// Resolved returns the subtree a lazy node stands for, or the node itself
// for every other kind. It returns nil for a lazy node that has not been
// through Builder.Resolve yet.
func (n *Node) Resolved() *Node {
	if n != nil && n.Kind == KindLazy {
		return n.resolved
	}
	return n
}

// Material returns the node that actually owns target identity: lazy nodes
// defer to their resolved subtree, mapped nodes to their child. Returns
// nil when the chain is incomplete.
func (n *Node) Material() *Node {
	for n != nil {
		switch n.Kind {
		case KindLazy:
			n = n.resolved
		case KindMapped:
			if len(n.Children) == 0 {
				return nil
			}
			n = n.Children[0]
		default:
			return n
		}
	}
	return nil
}

// MountRef returns the mount identifier of the node's material form.
func (n *Node) MountRef() MountID {
	if m := n.Material(); m != nil {
		return m.Mount
	}
	return ""
}

// MapFunc returns the message translation of a mapped node, nil otherwise.
func (n *Node) MapFunc() func(any) any {
	if n == nil || n.Kind != KindMapped {
		return nil
	}
	return n.mapFn
}

// Interactive reports whether the node's material form carries at least
// one event handler.
func (n *Node) Interactive() bool {
	m := n.Material()
	if m == nil || m.Kind != KindElement {
		return false
	}
	for _, v := range m.Attrs {
		if v.IsHandler() {
			return true
		}
	}
	return false
}
