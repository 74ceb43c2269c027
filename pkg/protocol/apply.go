package protocol

import (
	"errors"
	"fmt"

	"github.com/arbor-dev/arbor/pkg/reconcile"
	"github.com/arbor-dev/arbor/pkg/vtree"
)

// ErrMissingNode is returned when a create or replace patch arrives
// without a subtree.
var ErrMissingNode = errors.New("protocol: patch carries no node")

// ApplyPatchFrame applies a decoded batch to a render target. It is the
// client-side mirror of reconcile.Applier: creates mint ids in patch
// order (so they agree with the server's), replaces retarget later
// operations in the same batch, and a positioned create is an append
// plus a move. Split batches must be merged with MergePatchFrames
// before applying, so replace retargeting spans the whole batch.
func ApplyPatchFrame(t reconcile.Target, f *PatchFrame) error {
	a := wireApplier{target: t}
	for i := range f.Patches {
		p := &f.Patches[i]
		if err := a.apply(p); err != nil {
			return fmt.Errorf("protocol: apply %s on %q: %w", p.Op, p.Target, err)
		}
	}
	return nil
}

type wireApplier struct {
	target   reconcile.Target
	replaced map[vtree.MountID]vtree.MountID
}

func (a *wireApplier) lookup(id vtree.MountID) vtree.MountID {
	if next, ok := a.replaced[id]; ok {
		return next
	}
	return id
}

func (a *wireApplier) apply(p *Patch) error {
	switch p.Op {
	case PatchCreate:
		id, err := a.mount(p.Node)
		if err != nil {
			return err
		}
		if err := a.target.Append(p.Parent, id); err != nil {
			return err
		}
		if p.Index >= 0 {
			return a.target.Move(p.Parent, id, p.Index)
		}
		return nil

	case PatchRemove:
		return a.target.Remove(p.Parent, a.lookup(p.Target))

	case PatchReplace:
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

	case PatchUpdateText:
		return a.target.SetText(a.lookup(p.Target), p.Text)

	case PatchUpdateAttrs:
		if p.Attrs == nil {
			return nil
		}
		id := a.lookup(p.Target)
		for _, k := range p.Attrs.Removed {
			if err := a.target.RemoveAttr(id, k); err != nil {
				return err
			}
		}
		for _, at := range p.Attrs.Set {
			if err := a.target.SetAttr(id, at.Key, at.Value); err != nil {
				return err
			}
		}
		return nil

	case PatchReorder:
		for _, mv := range p.Moves {
			if err := a.target.Move(p.Parent, a.lookup(mv.Target), mv.To); err != nil {
				return err
			}
		}
		return nil

	default:
		return ErrUnknownPatchOp
	}
}

func (a *wireApplier) mount(n *WireNode) (vtree.MountID, error) {
	if n == nil {
		return "", ErrMissingNode
	}
	switch n.Kind {
	case WireText:
		return a.target.CreateText(n.Text)

	case WireEmpty:
		return a.target.CreateText("")

	case WireElement:
		id, err := a.target.CreateElement(n.Tag)
		if err != nil {
			return "", err
		}
		for _, at := range n.Attrs {
			if err := a.target.SetAttr(id, at.Key, at.Value); err != nil {
				return "", err
			}
		}
		for _, c := range n.Children {
			cid, err := a.mount(c)
			if err != nil {
				return "", err
			}
			if err := a.target.Append(id, cid); err != nil {
				return "", err
			}
		}
		return id, nil

	default:
		return "", fmt.Errorf("%w: 0x%02X", ErrUnknownWireKind, byte(n.Kind))
	}
}
