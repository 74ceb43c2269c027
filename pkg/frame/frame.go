// Package frame manages the paired node regions of a render loop.
//
// A loop owns exactly two regions and alternates their roles each cycle:
// the view builds the next tree into one while the differ still reads the
// previous tree out of the other. Begin reclaims the region holding the
// tree from two cycles back, so at any instant at most two trees are live
// and steady-state rendering allocates no new slabs.
package frame

import "github.com/arbor-dev/arbor/pkg/vtree"

// Manager drives the two-region lifecycle. Methods must be called from the
// loop's goroutine; cycles are run-to-completion and never interleave.
//
// The cycle protocol is Begin, build, then exactly one of Commit or Abort.
// Commit records the just-built tree as the previous tree for the next
// cycle. It runs even when patch application failed partway: the target is
// left prefix-applied against the new tree, so the new tree is the only
// safe baseline for the next diff. Abort is for trees that never reached
// the differ (construction errors); it rolls the region toggle back and
// the previous tree stands.
type Manager struct {
	regions [2]*vtree.Arena
	active  int
	prev    *vtree.Node
	open    bool
	cycle   uint64
}

// NewManager returns a manager with two empty regions.
func NewManager() *Manager {
	return &Manager{
		regions: [2]*vtree.Arena{vtree.NewArena(), vtree.NewArena()},
	}
}

// Begin opens a cycle: the region still holding cycle k-2's tree becomes
// the active region, is cleared in bulk, and a Builder bound to it is
// returned. Panics if a cycle is already open.
func (m *Manager) Begin() *vtree.Builder {
	if m.open {
		panic("frame: Begin inside an open cycle")
	}
	m.open = true
	m.active = 1 - m.active
	m.regions[m.active].Reset()
	return vtree.NewBuilder(m.regions[m.active])
}

// Commit closes the open cycle and records root as the previous tree.
// Panics without a matching Begin.
func (m *Manager) Commit(root *vtree.Node) {
	if !m.open {
		panic("frame: Commit without Begin")
	}
	m.prev = root
	m.open = false
	m.cycle++
}

// Abort closes the open cycle, abandoning whatever was built into the
// active region; the previous tree is untouched and the abandoned region
// is reclaimed by the next Begin. Panics without a matching Begin.
func (m *Manager) Abort() {
	if !m.open {
		panic("frame: Abort without Begin")
	}
	m.active = 1 - m.active
	m.open = false
}

// Previous returns the root recorded by the last Commit, or nil before the
// first. The tree lives in a managed region: it stays valid until the
// second Begin from now and must not be retained beyond that. Async work
// spawned from a cycle must copy out plain values, never node pointers.
func (m *Manager) Previous() *vtree.Node {
	return m.prev
}

// Cycle returns the number of committed cycles.
func (m *Manager) Cycle() uint64 {
	return m.cycle
}

// InCycle reports whether a cycle is open.
func (m *Manager) InCycle() bool {
	return m.open
}

// ActiveNodes returns the node count of the most recently active region, a
// cheap tree-size proxy for loop telemetry.
func (m *Manager) ActiveNodes() int {
	return m.regions[m.active].Len()
}
