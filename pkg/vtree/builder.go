package vtree

import (
	"fmt"
	"reflect"
)

// Builder constructs nodes inside one Arena region. A view function
// receives a Builder, composes a tree with it, and the render loop checks
// Err before handing that tree to the differ.
//
// The first construction error sticks; later operations still return
// nodes so a view can complete, but the cycle is abandoned before diffing.
type Builder struct {
	arena *Arena
	err   error
}

// NewBuilder binds a builder to an arena.
func NewBuilder(a *Arena) *Builder {
	return &Builder{arena: a}
}

// Err returns the first construction error, or nil.
func (b *Builder) Err() error {
	return b.err
}

func (b *Builder) fail(op, key string, err error) {
	if b.err == nil {
		b.err = &ConstructionError{Op: op, Key: key, Err: err}
	}
}

// El creates an element node with the given tag.
// Arguments can be: nil, Attr, []Attr, *Node, []*Node, string.
// Nil and empty attributes are skipped, which keeps conditional
// construction free of branches at call sites.
func (b *Builder) El(tag string, args ...any) *Node {
	n := b.arena.alloc()
	n.Kind = KindElement
	n.Tag = tag

	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			continue
		case Attr:
			b.setAttr(n, v)
		case []Attr:
			for _, a := range v {
				b.setAttr(n, a)
			}
		case *Node:
			if v != nil {
				n.Children = append(n.Children, v)
			}
		case []*Node:
			for _, c := range v {
				if c != nil {
					n.Children = append(n.Children, c)
				}
			}
		case string:
			n.Children = append(n.Children, b.Text(v))
		}
	}

	// A keyed collection owns the whole child list of its parent.
	for _, c := range n.Children {
		if c.Kind == KindKeyed && len(n.Children) > 1 {
			b.fail("El", "", ErrKeyedPlacement)
			break
		}
	}
	return n
}

func (b *Builder) setAttr(n *Node, a Attr) {
	if a.Key == "" {
		return
	}
	if a.Key == "key" {
		n.Key = a.Value.Text()
		return
	}
	if n.Attrs == nil {
		n.Attrs = make(Attrs)
	}
	n.Attrs[a.Key] = a.Value
}

// Text creates a text node.
func (b *Builder) Text(s string) *Node {
	n := b.arena.alloc()
	n.Kind = KindText
	n.Text = s
	return n
}

// Textf creates a text node from a format string.
func (b *Builder) Textf(format string, args ...any) *Node {
	return b.Text(fmt.Sprintf(format, args...))
}

// Empty creates a node that renders nothing. In a child slot it holds the
// position open with a placeholder; at the root it mounts nothing.
func (b *Builder) Empty() *Node {
	n := b.arena.alloc()
	n.Kind = KindEmpty
	return n
}

// Keyed creates a keyed collection from children that each carry a
// reconciliation key (via the Key attribute or WithKey). Keys must be
// unique within the collection; a duplicate, a missing key, or a nested
// collection is a construction error.
func (b *Builder) Keyed(children ...*Node) *Node {
	n := b.arena.alloc()
	n.Kind = KindKeyed

	seen := make(map[string]struct{}, len(children))
	for _, c := range children {
		if c == nil {
			continue
		}
		switch {
		case c.Kind == KindKeyed:
			b.fail("Keyed", c.Key, ErrKeyedPlacement)
		case c.Key == "":
			b.fail("Keyed", "", ErrMissingKey)
		default:
			if _, dup := seen[c.Key]; dup {
				b.fail("Keyed", c.Key, ErrDuplicateKey)
			}
			seen[c.Key] = struct{}{}
		}
		n.Children = append(n.Children, c)
	}
	return n
}

// WithKey tags an already-built node with a reconciliation key, for
// collection members that are not elements (text, lazy, mapped, empty).
func (b *Builder) WithKey(key string, n *Node) *Node {
	if n != nil {
		n.Key = key
	}
	return n
}

// Lazy creates a deferred subtree. The identity must be comparable; the
// producer runs at most once per render cycle (see Resolve) and its
// result is diffed like any other subtree.
func (b *Builder) Lazy(id any, produce func() *Node) *Node {
	n := b.arena.alloc()
	n.Kind = KindLazy
	n.LazyID = id
	n.produce = produce

	if id == nil || !reflect.TypeOf(id).Comparable() {
		b.fail("Lazy", "", ErrLazyIdentity)
	}
	if produce == nil {
		b.fail("Lazy", "", ErrLazyProducer)
	}
	return n
}

// Map wraps a subtree whose handlers produce messages in a different
// domain. fn translates each child message to the parent domain at
// dispatch time; diffing ignores it and compares content structurally.
func (b *Builder) Map(fn func(any) any, child *Node) *Node {
	n := b.arena.alloc()
	n.Kind = KindMapped
	n.mapFn = fn

	if fn == nil {
		b.fail("Map", "", ErrMapFunc)
	}
	if child == nil {
		b.fail("Map", "", ErrMapChild)
	} else {
		n.Children = []*Node{child}
	}
	return n
}
