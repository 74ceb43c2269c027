package vtree

// arenaChunk is the node count per slab. Slabs are fixed-size and never
// reallocated, so *Node pointers stay valid while an arena grows.
const arenaChunk = 256

// Arena is a region allocator for Node values. The frame manager owns two
// of them and alternates roles each cycle: the view builds into the active
// one while the differ reads the tree still resident in the retired one.
//
// Reset reclaims everything at once. It zeroes the allocated nodes, so a
// pointer that illegally outlives its region reads KindInvalid instead of
// stale tree data, and it keeps the slabs for reuse.
//
// An Arena is not safe for concurrent use; cycles are run-to-completion
// and single-threaded.
type Arena struct {
	chunks [][]Node
	used   int
	gen    uint64
}

// NewArena returns an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// alloc hands out the next zeroed node.
func (a *Arena) alloc() *Node {
	ci := a.used / arenaChunk
	if ci == len(a.chunks) {
		a.chunks = append(a.chunks, make([]Node, arenaChunk))
	}
	n := &a.chunks[ci][a.used%arenaChunk]
	a.used++
	return n
}

// Reset clears the region in bulk: every node allocated since the last
// Reset is zeroed, capacity is retained, and the generation advances.
func (a *Arena) Reset() {
	remaining := a.used
	for _, chunk := range a.chunks {
		if remaining <= 0 {
			break
		}
		n := remaining
		if n > len(chunk) {
			n = len(chunk)
		}
		clear(chunk[:n])
		remaining -= n
	}
	a.used = 0
	a.gen++
}

// Len reports how many nodes the current generation has allocated.
func (a *Arena) Len() int {
	return a.used
}

// Gen reports the reset generation, starting at zero.
func (a *Arena) Gen() uint64 {
	return a.gen
}
