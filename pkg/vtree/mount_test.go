package vtree

import "testing"

func TestCopyMounts_CarriesIdsForward(t *testing.T) {
	pb := newBuilder(t)
	prev := pb.Div(Class("a"), pb.Text("hi"), pb.Span())
	mountAll(prev)

	nb := newBuilder(t)
	next := nb.Div(Class("b"), nb.Text("bye"), nb.Span())

	CopyMounts(prev, next)

	if next.Mount != prev.Mount {
		t.Errorf("root mount = %q, want %q", next.Mount, prev.Mount)
	}
	for i := range next.Children {
		if got, want := next.Children[i].Mount, prev.Children[i].Mount; got != want {
			t.Errorf("child %d mount = %q, want %q", i, got, want)
		}
	}
}

func TestCopyMounts_StopsAtReplacement(t *testing.T) {
	pb := newBuilder(t)
	prev := pb.Div(pb.P(pb.Text("x")))
	mountAll(prev)

	nb := newBuilder(t)
	next := nb.Div(nb.Span(nb.Text("x")))

	CopyMounts(prev, next)

	if next.Mount == "" {
		t.Fatal("root mount not copied")
	}
	child := next.Children[0]
	if child.Mount != "" {
		t.Errorf("replaced child mount = %q, want empty", child.Mount)
	}
	if child.Children[0].Mount != "" {
		t.Errorf("grandchild below a replacement mount = %q, want empty", child.Children[0].Mount)
	}
}

func TestCopyMounts_MatchesByKey(t *testing.T) {
	pb := newBuilder(t)
	prev := pb.Ul(pb.Keyed(
		pb.Li(Key("a"), "alpha"),
		pb.Li(Key("b"), "beta"),
		pb.Li(Key("c"), "gamma"),
	))
	mountAll(prev)

	nb := newBuilder(t)
	next := nb.Ul(nb.Keyed(
		nb.Li(Key("c"), "gamma"),
		nb.Li(Key("a"), "alpha"),
		nb.Li(Key("d"), "delta"),
	))

	CopyMounts(prev, next)

	prevByKey := map[string]MountID{}
	for _, c := range prev.Children[0].Children {
		prevByKey[c.Key] = c.Mount
	}
	list := next.Children[0].Children
	if got := list[0].Mount; got != prevByKey["c"] {
		t.Errorf("key c mount = %q, want %q", got, prevByKey["c"])
	}
	if got := list[1].Mount; got != prevByKey["a"] {
		t.Errorf("key a mount = %q, want %q", got, prevByKey["a"])
	}
	if got := list[2].Mount; got != "" {
		t.Errorf("new key d mount = %q, want empty", got)
	}
}

func TestCopyMounts_ThroughWrappers(t *testing.T) {
	toParent := func(m any) any { return m }

	pb := newBuilder(t)
	prev := pb.Map(toParent, pb.Div(pb.Lazy("body", func() *Node { return pb.Text("inner") })))
	if err := pb.Resolve(prev); err != nil {
		t.Fatalf("Resolve(prev) error = %v", err)
	}
	mountAll(prev)

	nb := newBuilder(t)
	next := nb.Map(toParent, nb.Div(nb.Lazy("body", func() *Node { return nb.Text("inner") })))
	if err := nb.Resolve(next); err != nil {
		t.Fatalf("Resolve(next) error = %v", err)
	}

	CopyMounts(prev, next)

	if got, want := next.MountRef(), prev.MountRef(); got == "" || got != want {
		t.Errorf("MountRef() = %q, want %q", got, want)
	}
	prevLeaf := prev.Material().Children[0].Material()
	nextLeaf := next.Material().Children[0].Material()
	if nextLeaf.Mount == "" || nextLeaf.Mount != prevLeaf.Mount {
		t.Errorf("leaf mount = %q, want %q", nextLeaf.Mount, prevLeaf.Mount)
	}
}

func TestCopyMounts_ReadsOnlyPrev(t *testing.T) {
	pb := newBuilder(t)
	prev := pb.Div(pb.Text("a"))
	mountAll(prev)
	rootMount, childMount := prev.Mount, prev.Children[0].Mount

	nb := newBuilder(t)
	next := nb.Div(nb.Text("b"))
	CopyMounts(prev, next)

	if prev.Mount != rootMount || prev.Children[0].Mount != childMount {
		t.Error("previous tree was modified")
	}
}
