package vtree

// Resolve materializes every lazy node reachable from root, calling each
// producer at most once per render cycle: nodes sharing an identity share
// the resolution. It runs after the view function returns and before
// CopyMounts and Diff, so the differ only ever sees resolved subtrees.
//
// A producer that returns nil resolves to an Empty node. A producer whose
// subtree reaches a lazy node with the same identity is a construction
// error, since the tree would be infinite.
func (b *Builder) Resolve(root *Node) error {
	if root == nil {
		return b.err
	}
	r := resolver{b: b, memo: make(map[any]*Node)}
	if err := r.walk(root); err != nil {
		b.fail("Lazy", "", err)
		return b.err
	}
	return b.err
}

type resolver struct {
	b    *Builder
	memo map[any]*Node
}

func (r *resolver) walk(n *Node) error {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case KindLazy:
		if n.resolved != nil {
			return nil
		}
		if cached, ok := r.memo[n.LazyID]; ok {
			if cached == nil {
				return ErrLazyCycle
			}
			n.resolved = cached
			return nil
		}
		if n.produce == nil {
			return ErrLazyProducer
		}
		r.memo[n.LazyID] = nil // marks resolution in flight
		sub := n.produce()
		if sub == nil {
			sub = r.b.Empty()
		}
		n.resolved = sub
		if err := r.walk(sub); err != nil {
			return err
		}
		r.memo[n.LazyID] = sub
		return nil
	case KindElement, KindKeyed, KindMapped:
		for _, c := range n.Children {
			if err := r.walk(c); err != nil {
				return err
			}
		}
	}
	return nil
}
