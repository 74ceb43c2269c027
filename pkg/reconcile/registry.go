package reconcile

import "github.com/arbor-dev/arbor/pkg/vtree"

// binding ties one event slot of one mounted node to its handler, plus
// the message translations accumulated from enclosing mapped subtrees,
// outermost first.
type binding struct {
	handler *vtree.Handler
	chain   []func(any) any
}

// Registry routes events for exactly one committed tree. The loop
// rebuilds it after every apply, so a binding can never outlive the node
// it points at and a stale client event simply fails to resolve.
type Registry struct {
	bindings map[vtree.MountID]map[string]binding
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{bindings: make(map[vtree.MountID]map[string]binding)}
}

// Rebuild re-indexes the registry from the committed tree's handlers.
func (r *Registry) Rebuild(root *vtree.Node) {
	clear(r.bindings)
	r.walk(root, nil)
}

func (r *Registry) walk(n *vtree.Node, chain []func(any) any) {
	if n == nil {
		return
	}
	switch n.Kind {
	case vtree.KindLazy:
		r.walk(n.Resolved(), chain)
	case vtree.KindMapped:
		fn := n.MapFunc()
		if fn == nil || len(n.Children) != 1 {
			return
		}
		// Copy-extend so sibling branches never share a backing array.
		next := make([]func(any) any, len(chain)+1)
		copy(next, chain)
		next[len(chain)] = fn
		r.walk(n.Children[0], next)
	case vtree.KindKeyed:
		for _, c := range n.Children {
			r.walk(c, chain)
		}
	case vtree.KindElement:
		for _, v := range n.Attrs {
			if !v.IsHandler() {
				continue
			}
			h := v.Handler()
			slots := r.bindings[n.Mount]
			if slots == nil {
				slots = make(map[string]binding)
				r.bindings[n.Mount] = slots
			}
			slots[h.Event] = binding{handler: h, chain: chain}
		}
		for _, c := range n.Children {
			r.walk(c, chain)
		}
	}
}

// Resolve turns one event occurrence on a mounted node into an
// application message. Mapped translations apply innermost first, so a
// child component's message climbs the composition chain the way it was
// wrapped. The second return is false when the node has no binding for
// the slot, which is the normal fate of events raced against a rerender.
func (r *Registry) Resolve(id vtree.MountID, ev vtree.Event) (any, bool) {
	slots, ok := r.bindings[id]
	if !ok {
		return nil, false
	}
	b, ok := slots[ev.Name]
	if !ok {
		return nil, false
	}
	msg := b.handler.Resolve(ev)
	for i := len(b.chain) - 1; i >= 0; i-- {
		msg = b.chain[i](msg)
	}
	return msg, true
}

// Len reports how many mounted nodes carry at least one handler.
func (r *Registry) Len() int {
	return len(r.bindings)
}
