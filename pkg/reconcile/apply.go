package reconcile

import (
	"sort"

	"github.com/arbor-dev/arbor/pkg/vtree"
)

// Applier drives one Target. It is bound to the single-threaded render
// loop that owns the target; one Apply call per cycle.
type Applier struct {
	target Target

	// replaced maps mount ids invalidated by a replace patch to their
	// replacements, so later moves in the same batch resolve. Reset per
	// Apply call.
	replaced map[vtree.MountID]vtree.MountID
}

// NewApplier returns an applier for the given target.
func NewApplier(t Target) *Applier {
	return &Applier{target: t}
}

// Apply executes the patch list in order, each patch exactly once. On the
// first failing target operation it stops and returns an *ApplyError; the
// target keeps the already-applied prefix.
//
// Materializing a create or replace subtree writes the minted mount ids
// into the subtree's nodes, which is what carries identity into the next
// cycle's CopyMounts pass.
func (a *Applier) Apply(patches []vtree.Patch) error {
	a.replaced = nil
	for i := range patches {
		p := &patches[i]
		if err := a.applyOne(p); err != nil {
			return &ApplyError{Op: p.Op, Patch: *p, Target: p.Target, Applied: i, Err: err}
		}
	}
	return nil
}

func (a *Applier) applyOne(p *vtree.Patch) error {
	switch p.Op {
	case vtree.OpCreate:
		id, err := a.mount(p.Node)
		if err != nil {
			return err
		}
		if err := a.target.Append(p.Parent, id); err != nil {
			return err
		}
		// A positioned insert is an append plus a move; -1 means append.
		if p.Index >= 0 {
			return a.target.Move(p.Parent, id, p.Index)
		}
		return nil

	case vtree.OpRemove:
		return a.target.Remove(p.Parent, a.lookup(p.Target))

	case vtree.OpReplace:
		id, err := a.mount(p.Node)
		if err != nil {
			return err
		}
		old := a.lookup(p.Target)
		if err := a.target.Replace(p.Parent, old, id); err != nil {
			return err
		}
		if a.replaced == nil {
			a.replaced = make(map[vtree.MountID]vtree.MountID)
		}
		a.replaced[old] = id
		return nil

	case vtree.OpUpdateText:
		return a.target.SetText(a.lookup(p.Target), p.Text)

	case vtree.OpUpdateAttrs:
		return a.applyAttrs(a.lookup(p.Target), p.Attrs)

	case vtree.OpReorder:
		for _, mv := range p.Moves {
			if err := a.target.Move(p.Parent, a.lookup(mv.Target), mv.To); err != nil {
				return err
			}
		}
		return nil

	default:
		return ErrUnknownOp
	}
}

// lookup resolves a mount id recorded before this Apply against the
// replacements made during it.
func (a *Applier) lookup(id vtree.MountID) vtree.MountID {
	if next, ok := a.replaced[id]; ok {
		return next
	}
	return id
}

// mount materializes the subtree rooted at n and returns the mount id of
// its material root. Lazy and mapped wrappers are looked through, an
// empty node lowers to a placeholder text node so sibling indexes stay
// aligned, and handler-valued attributes are skipped: handlers live in
// the Registry, not on the target.
func (a *Applier) mount(n *vtree.Node) (vtree.MountID, error) {
	m := n.Material()
	if m == nil {
		return "", ErrUnresolvedNode
	}
	switch m.Kind {
	case vtree.KindText:
		id, err := a.target.CreateText(m.Text)
		if err != nil {
			return "", err
		}
		m.Mount = id
		return id, nil

	case vtree.KindEmpty:
		id, err := a.target.CreateText("")
		if err != nil {
			return "", err
		}
		m.Mount = id
		return id, nil

	case vtree.KindElement:
		id, err := a.target.CreateElement(m.Tag)
		if err != nil {
			return "", err
		}
		m.Mount = id
		for _, key := range sortedAttrKeys(m.Attrs) {
			v := m.Attrs[key]
			if v.IsHandler() {
				continue
			}
			if err := a.target.SetAttr(id, key, v.Text()); err != nil {
				return "", err
			}
		}
		if err := a.mountChildren(id, m.Children); err != nil {
			return "", err
		}
		return id, nil

	case vtree.KindKeyed:
		return "", ErrBareCollection

	default:
		return "", ErrInvalidNode
	}
}

// mountChildren materializes and appends a child list, flattening keyed
// collections into the same parent.
func (a *Applier) mountChildren(parent vtree.MountID, children []*vtree.Node) error {
	for _, c := range children {
		if c == nil {
			continue
		}
		if m := c.Material(); m != nil && m.Kind == vtree.KindKeyed {
			if err := a.mountChildren(parent, m.Children); err != nil {
				return err
			}
			continue
		}
		id, err := a.mount(c)
		if err != nil {
			return err
		}
		if err := a.target.Append(parent, id); err != nil {
			return err
		}
	}
	return nil
}

// applyAttrs translates one attribute patch. String-valued changes reach
// the target; handler-valued ones only matter to the Registry, except
// when a value flips between the two shapes.
func (a *Applier) applyAttrs(id vtree.MountID, ap *vtree.AttrPatch) error {
	if ap == nil {
		return nil
	}
	for _, at := range ap.Removed {
		if at.Value.IsHandler() {
			continue
		}
		if err := a.target.RemoveAttr(id, at.Key); err != nil {
			return err
		}
	}
	for _, ch := range ap.Changed {
		switch {
		case ch.Old.IsHandler() && ch.New.IsHandler():
			// Rebinding only; the materialized attribute set is unchanged.
		case ch.New.IsHandler():
			if err := a.target.RemoveAttr(id, ch.Key); err != nil {
				return err
			}
		default:
			if err := a.target.SetAttr(id, ch.Key, ch.New.Text()); err != nil {
				return err
			}
		}
	}
	for _, at := range ap.Added {
		if at.Value.IsHandler() {
			continue
		}
		if err := a.target.SetAttr(id, at.Key, at.Value.Text()); err != nil {
			return err
		}
	}
	return nil
}

func sortedAttrKeys(attrs vtree.Attrs) []string {
	if len(attrs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
