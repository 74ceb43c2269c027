package vtree

// CopyMounts carries mount identifiers from the previous tree onto the
// matching nodes of the next tree, following the same matching rules as
// Diff: same kind (and tag, for elements) in the same slot, key matching
// inside keyed lists. Nodes that Diff would replace or create are left
// with an empty Mount and receive a fresh identifier at application time.
//
// CopyMounts writes only into next; the previous tree is read-only. Run
// it after Resolve and before Diff.
func CopyMounts(prev, next *Node) {
	prev, next = unwrapLazy(prev), unwrapLazy(next)
	if prev == nil || next == nil || prev.Kind != next.Kind {
		return
	}
	switch prev.Kind {
	case KindText, KindEmpty:
		next.Mount = prev.Mount
	case KindElement:
		if prev.Tag != next.Tag {
			return
		}
		next.Mount = prev.Mount
		copyChildMounts(effectiveChildren(prev), effectiveChildren(next))
	case KindKeyed:
		copyChildMounts(prev.Children, next.Children)
	case KindMapped:
		if len(prev.Children) == 1 && len(next.Children) == 1 {
			CopyMounts(prev.Children[0], next.Children[0])
		}
	}
}

func copyChildMounts(prev, next []*Node) {
	if hasKeys(prev) || hasKeys(next) {
		prevByKey := make(map[string]*Node, len(prev))
		for _, c := range prev {
			if c != nil && c.Key != "" {
				prevByKey[c.Key] = c
			}
		}
		for _, c := range next {
			if c == nil || c.Key == "" {
				continue
			}
			if pc, ok := prevByKey[c.Key]; ok {
				CopyMounts(pc, c)
			}
		}
		return
	}
	n := len(prev)
	if len(next) < n {
		n = len(next)
	}
	for i := 0; i < n; i++ {
		CopyMounts(prev[i], next[i])
	}
}
