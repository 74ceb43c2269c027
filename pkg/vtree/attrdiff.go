package vtree

import "sort"

// DiffAttrs compares two attribute sets and returns the added, removed
// and changed sets, or nil when the sets are identical. String values
// compare byte-exact; handler values compare by reference identity, so a
// handler rebuilt as a new allocation counts as changed even when it
// would produce the same message.
//
// Each output set is sorted by key and the sets are disjoint: a key
// appears in exactly one of them.
func DiffAttrs(prev, next Attrs) *AttrPatch {
	var added, removed []Attr
	var changed []AttrChange

	for key, pv := range prev {
		nv, ok := next[key]
		if !ok {
			removed = append(removed, Attr{Key: key, Value: pv})
			continue
		}
		if !pv.Equal(nv) {
			changed = append(changed, AttrChange{Key: key, Old: pv, New: nv})
		}
	}
	for key, nv := range next {
		if _, ok := prev[key]; !ok {
			added = append(added, Attr{Key: key, Value: nv})
		}
	}

	if len(added) == 0 && len(removed) == 0 && len(changed) == 0 {
		return nil
	}

	// Map iteration is randomized; sort for deterministic patches.
	sort.Slice(added, func(i, j int) bool { return added[i].Key < added[j].Key })
	sort.Slice(removed, func(i, j int) bool { return removed[i].Key < removed[j].Key })
	sort.Slice(changed, func(i, j int) bool { return changed[i].Key < changed[j].Key })

	return &AttrPatch{Added: added, Removed: removed, Changed: changed}
}
