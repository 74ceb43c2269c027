package vtree

// keyedChildren reconciles two child lists where either side declares
// keys. Matched keys are diffed recursively (their mount identity was
// carried forward by CopyMounts); position changes collapse into one
// batched reorder patch per parent; new keys and unkeyed children become
// positioned creates; vanished keys become removes.
//
// Emission order per parent is updates, reorder, creates, removes, which
// is also the application order that reproduces the next list exactly.
func (d *differ) keyedChildren(parent MountID, prev, next []*Node) {
	prevIdx := make(map[string]int, len(prev))
	for i, c := range prev {
		if c != nil && c.Key != "" {
			prevIdx[c.Key] = i
		}
	}

	matched := make(map[int]bool, len(prev))
	moved := false
	type pending struct {
		index int
		node  *Node
	}
	var creates []pending

	for ni, nc := range next {
		if nc == nil {
			continue
		}
		pi, ok := -1, false
		if nc.Key != "" {
			pi, ok = prevIdx[nc.Key]
		}
		if !ok {
			// New key, or an unkeyed child in a keyed list.
			creates = append(creates, pending{index: ni, node: nc})
			continue
		}
		matched[pi] = true
		if pi != ni {
			moved = true
		}
		d.node(prev[pi], nc, parent)
	}

	if moved {
		if moves := moveSequence(prev, next, prevIdx, matched); len(moves) > 0 {
			d.emit(Patch{Op: OpReorder, Parent: parent, Moves: moves})
		}
	}

	for _, c := range creates {
		d.create(parent, c.index, c.node)
	}
	for i, pc := range prev {
		if pc != nil && !matched[i] {
			d.remove(parent, pc)
		}
	}
}

// moveSequence turns the matched keys' position changes into explicit
// from→to steps. It simulates the child list: survivors are pulled into
// next order left to right, which pushes doomed children toward the tail,
// so that applying the steps, then the creates, then the removes yields
// the exact next ordering. The sequence is deterministic, not minimal.
func moveSequence(prev, next []*Node, prevIdx map[string]int, matched map[int]bool) []Move {
	desired := make([]int, 0, len(prev))
	for _, nc := range next {
		if nc == nil || nc.Key == "" {
			continue
		}
		if pi, ok := prevIdx[nc.Key]; ok && matched[pi] {
			desired = append(desired, pi)
		}
	}
	for i, pc := range prev {
		if pc != nil && !matched[i] {
			desired = append(desired, i)
		}
	}

	sim := make([]int, len(prev))
	for i := range sim {
		sim[i] = i
	}

	var moves []Move
	for j := range desired {
		if sim[j] == desired[j] {
			continue
		}
		k := j + 1
		for sim[k] != desired[j] {
			k++
		}
		moves = append(moves, Move{Target: prev[desired[j]].MountRef(), From: k, To: j})
		copy(sim[j+1:k+1], sim[j:k])
		sim[j] = desired[j]
	}
	return moves
}
