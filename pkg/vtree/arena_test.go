package vtree

import "testing"

func TestArena_AllocSpansChunks(t *testing.T) {
	a := NewArena()
	first := a.alloc()
	first.Kind = KindText
	first.Text = "keep"

	// Force growth past one slab; earlier pointers must stay valid.
	for i := 1; i < arenaChunk+8; i++ {
		n := a.alloc()
		if n.Kind != KindInvalid {
			t.Fatalf("alloc %d: kind = %v, want zeroed node", i, n.Kind)
		}
	}

	if got, want := a.Len(), arenaChunk+8; got != want {
		t.Errorf("Len() = %d, want %d", got, want)
	}
	if first.Text != "keep" {
		t.Errorf("first node text = %q after growth, want %q", first.Text, "keep")
	}
}

func TestArena_ResetZeroesNodes(t *testing.T) {
	a := NewArena()
	b := NewBuilder(a)
	stale := b.Div(Class("box"), b.Text("hello"))

	a.Reset()

	if stale.Kind != KindInvalid {
		t.Errorf("stale node kind = %v after Reset, want %v", stale.Kind, KindInvalid)
	}
	if stale.Tag != "" || stale.Attrs != nil || stale.Children != nil {
		t.Errorf("stale node not cleared: %+v", stale)
	}
	if a.Len() != 0 {
		t.Errorf("Len() = %d after Reset, want 0", a.Len())
	}
}

func TestArena_ResetReusesSlabs(t *testing.T) {
	a := NewArena()
	first := a.alloc()
	for i := 1; i < arenaChunk*2; i++ {
		a.alloc()
	}

	a.Reset()

	if again := a.alloc(); again != first {
		t.Errorf("alloc after Reset = %p, want first slab slot %p", again, first)
	}
}

func TestArena_GenAdvancesPerReset(t *testing.T) {
	a := NewArena()
	if a.Gen() != 0 {
		t.Fatalf("Gen() = %d, want 0", a.Gen())
	}
	a.Reset()
	a.alloc()
	a.Reset()
	if got := a.Gen(); got != 2 {
		t.Errorf("Gen() = %d after two resets, want 2", got)
	}
}
