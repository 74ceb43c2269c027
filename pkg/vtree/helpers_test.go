package vtree

import (
	"fmt"
	"testing"
)

// newBuilder returns a builder over a fresh arena for one test.
func newBuilder(t *testing.T) *Builder {
	t.Helper()
	return NewBuilder(NewArena())
}

// mountAll assigns sequential mount identifiers to every material node of
// a tree, standing in for a previous application pass.
func mountAll(root *Node) {
	n := 0
	var walk func(*Node)
	walk = func(node *Node) {
		if node == nil {
			return
		}
		switch node.Kind {
		case KindLazy:
			walk(node.resolved)
		case KindMapped:
			if len(node.Children) == 1 {
				walk(node.Children[0])
			}
		case KindKeyed:
			for _, c := range node.Children {
				walk(c)
			}
		default:
			n++
			node.Mount = MountID(fmt.Sprintf("m%d", n))
			for _, c := range node.Children {
				walk(c)
			}
		}
	}
	walk(root)
}

// ops returns the op names of a patch list, for compact assertions.
// An empty patch list yields nil so it compares equal to a nil want.
func ops(patches []Patch) []string {
	if len(patches) == 0 {
		return nil
	}
	out := make([]string, len(patches))
	for i, p := range patches {
		out[i] = p.Op.String()
	}
	return out
}

// countOp counts patches with the given op.
func countOp(patches []Patch, op PatchOp) int {
	n := 0
	for _, p := range patches {
		if p.Op == op {
			n++
		}
	}
	return n
}
