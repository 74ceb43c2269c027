package protocol

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/arbor-dev/arbor/pkg/vtree"
)

func TestFromTree_OpLowering(t *testing.T) {
	b := vtree.NewBuilder(vtree.NewArena())
	span := b.Span(vtree.Class("x"), b.Text("new"))
	if err := b.Err(); err != nil {
		t.Fatalf("build: %v", err)
	}
	wireSpan := &WireNode{
		Kind:     WireElement,
		Tag:      "span",
		Attrs:    []WireAttr{{Key: "class", Value: "x"}},
		Children: []*WireNode{{Kind: WireText, Text: "new"}},
	}

	engine := []vtree.Patch{
		{Op: vtree.OpCreate, Parent: "root", Index: -1, Node: span},
		{Op: vtree.OpCreate, Parent: "n1", Index: 2, Node: span},
		{Op: vtree.OpRemove, Parent: "n1", Target: "n4"},
		{Op: vtree.OpReplace, Parent: "root", Target: "n2", Node: span},
		{Op: vtree.OpUpdateText, Target: "n3", Text: "after", OldText: "before"},
		{Op: vtree.OpReorder, Parent: "n1", Moves: []vtree.Move{
			{Target: "n5", From: 2, To: 0},
			{Target: "n6", From: 2, To: 1},
		}},
	}

	got, err := FromTree(9, engine)
	if err != nil {
		t.Fatalf("FromTree: %v", err)
	}

	want := &PatchFrame{Cycle: 9, Patches: []Patch{
		{Op: PatchCreate, Parent: "root", Index: -1, Node: wireSpan},
		{Op: PatchCreate, Parent: "n1", Index: 2, Node: wireSpan},
		{Op: PatchRemove, Parent: "n1", Target: "n4"},
		{Op: PatchReplace, Parent: "root", Target: "n2", Node: wireSpan},
		{Op: PatchUpdateText, Target: "n3", Text: "after"},
		{Op: PatchReorder, Parent: "n1", Moves: []Move{
			{Target: "n5", To: 0},
			{Target: "n6", To: 1},
		}},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("lowered frame mismatch (-want +got):\n%s", diff)
	}
}

func TestFromTree_AttrLowering(t *testing.T) {
	oldInput := vtree.OnInput(func(string) any { return nil })
	newInput := vtree.OnInput(func(string) any { return nil })

	engine := []vtree.Patch{{
		Op:     vtree.OpUpdateAttrs,
		Target: "n2",
		Attrs: &vtree.AttrPatch{
			Removed: []vtree.Attr{
				vtree.Set("data-old", "x"),
				vtree.OnSubmit("gone"),
			},
			Changed: []vtree.AttrChange{
				{Key: "class", Old: vtree.StringValue("a"), New: vtree.StringValue("b")},
				{Key: "onclick", Old: vtree.StringValue("legacy()"), New: vtree.OnClick("m").Value},
				{Key: "oninput", Old: oldInput.Value, New: newInput.Value},
			},
			Added: []vtree.Attr{
				vtree.Set("title", "t"),
				vtree.OnBlur("b"),
			},
		},
	}}

	got, err := FromTree(1, engine)
	if err != nil {
		t.Fatalf("FromTree: %v", err)
	}
	if len(got.Patches) != 1 {
		t.Fatalf("got %d patches, want 1", len(got.Patches))
	}

	want := &AttrPatch{
		Removed: []string{"data-old", "onclick"},
		Set: []WireAttr{
			{Key: "class", Value: "b"},
			{Key: "title", Value: "t"},
		},
	}
	if diff := cmp.Diff(want, got.Patches[0].Attrs); diff != "" {
		t.Errorf("attr lowering mismatch (-want +got):\n%s", diff)
	}
}

func TestFromTree_DropsHandlerOnlyAttrPatch(t *testing.T) {
	h1 := vtree.OnClick("a")
	h2 := vtree.OnClick("b")

	engine := []vtree.Patch{
		{Op: vtree.OpUpdateText, Target: "n1", Text: "keep"},
		{Op: vtree.OpUpdateAttrs, Target: "n2", Attrs: &vtree.AttrPatch{
			Removed: []vtree.Attr{h1},
			Changed: []vtree.AttrChange{{Key: "onclick", Old: h1.Value, New: h2.Value}},
			Added:   []vtree.Attr{vtree.OnBlur("x")},
		}},
		{Op: vtree.OpUpdateText, Target: "n3", Text: "also keep"},
	}

	got, err := FromTree(2, engine)
	if err != nil {
		t.Fatalf("FromTree: %v", err)
	}
	if len(got.Patches) != 2 {
		t.Fatalf("got %d patches, want 2 (handler-only patch dropped)", len(got.Patches))
	}
	if got.Patches[0].Target != "n1" || got.Patches[1].Target != "n3" {
		t.Errorf("surviving patches target %q, %q", got.Patches[0].Target, got.Patches[1].Target)
	}
}

func TestPatchFrame_EncodeDecode(t *testing.T) {
	frame := &PatchFrame{Cycle: 42, Patches: []Patch{
		{Op: PatchCreate, Parent: "root", Index: -1, Node: &WireNode{
			Kind: WireElement,
			Tag:  "div",
			Children: []*WireNode{
				{Kind: WireText, Text: "hello"},
				{Kind: WireEmpty},
			},
		}},
		{Op: PatchCreate, Parent: "n1", Index: 3, Node: &WireNode{Kind: WireText, Text: "mid"}},
		{Op: PatchRemove, Parent: "n1", Target: "n4"},
		{Op: PatchReplace, Parent: "root", Target: "n2", Node: &WireNode{Kind: WireEmpty}},
		{Op: PatchUpdateText, Target: "n3", Text: "after"},
		{Op: PatchUpdateAttrs, Target: "n5", Attrs: &AttrPatch{
			Removed: []string{"data-old"},
			Set:     []WireAttr{{Key: "class", Value: "active"}},
		}},
		{Op: PatchUpdateAttrs, Target: "n6"},
		{Op: PatchReorder, Parent: "n1", Moves: []Move{
			{Target: "n7", To: 0},
			{Target: "n8", To: 4},
		}},
	}}

	got, err := DecodePatchFrame(EncodePatchFrame(frame))
	if err != nil {
		t.Fatalf("DecodePatchFrame: %v", err)
	}
	if diff := cmp.Diff(frame, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodePatchFrame_Errors(t *testing.T) {
	t.Run("unknown op", func(t *testing.T) {
		e := NewEncoder()
		e.WriteUvarint(1) // cycle
		e.WriteUvarint(1) // count
		e.WriteByte(0x7F)
		if _, err := DecodePatchFrame(e.Bytes()); !errors.Is(err, ErrUnknownPatchOp) {
			t.Errorf("got %v, want ErrUnknownPatchOp", err)
		}
	})

	t.Run("truncated", func(t *testing.T) {
		frame := &PatchFrame{Cycle: 1, Patches: []Patch{
			{Op: PatchUpdateText, Target: "n1", Text: "something"},
		}}
		data := EncodePatchFrame(frame)
		if _, err := DecodePatchFrame(data[:len(data)-3]); !errors.Is(err, io.ErrUnexpectedEOF) {
			t.Errorf("got %v, want ErrUnexpectedEOF", err)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		if _, err := DecodePatchFrame(nil); !errors.Is(err, io.ErrUnexpectedEOF) {
			t.Errorf("got %v, want ErrUnexpectedEOF", err)
		}
	})
}

func TestEncodePatchFrames_SingleFrame(t *testing.T) {
	patches := []Patch{
		{Op: PatchUpdateText, Target: "n1", Text: "one"},
		{Op: PatchRemove, Parent: "root", Target: "n2"},
	}
	frames, err := EncodePatchFrames(5, patches)
	if err != nil {
		t.Fatalf("EncodePatchFrames: %v", err)
	}
	if len(frames) != 1 {
		t.Fatalf("got %d frames, want 1", len(frames))
	}
	if frames[0].Type != FramePatches {
		t.Errorf("Type = %v, want %v", frames[0].Type, FramePatches)
	}
	if !frames[0].Flags.Has(FlagFinal) {
		t.Error("single frame must carry FlagFinal")
	}

	got, err := DecodePatchFrame(frames[0].Payload)
	if err != nil {
		t.Fatalf("DecodePatchFrame: %v", err)
	}
	want := &PatchFrame{Cycle: 5, Patches: patches}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("decoded frame mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodePatchFrames_SplitsLargeBatch(t *testing.T) {
	// Five ~30KB texts cannot share one 64KB frame, so the batch splits.
	patches := make([]Patch, 5)
	for i := range patches {
		patches[i] = Patch{
			Op:     PatchUpdateText,
			Target: vtree.MountID(fmt.Sprintf("n%d", i+1)),
			Text:   strings.Repeat("x", 30_000),
		}
	}

	frames, err := EncodePatchFrames(7, patches)
	if err != nil {
		t.Fatalf("EncodePatchFrames: %v", err)
	}
	if len(frames) < 2 {
		t.Fatalf("got %d frames, want a split", len(frames))
	}

	parts := make([]*PatchFrame, len(frames))
	for i, f := range frames {
		if f.Type != FramePatches {
			t.Fatalf("frame %d: Type = %v", i, f.Type)
		}
		if len(f.Payload) > MaxPayloadSize {
			t.Fatalf("frame %d: payload %d exceeds MaxPayloadSize", i, len(f.Payload))
		}
		isLast := i == len(frames)-1
		if f.Flags.Has(FlagFinal) != isLast {
			t.Fatalf("frame %d: FlagFinal = %v, want %v", i, f.Flags.Has(FlagFinal), isLast)
		}
		if parts[i], err = DecodePatchFrame(f.Payload); err != nil {
			t.Fatalf("frame %d: decode: %v", i, err)
		}
	}

	merged, err := MergePatchFrames(parts)
	if err != nil {
		t.Fatalf("MergePatchFrames: %v", err)
	}
	want := &PatchFrame{Cycle: 7, Patches: patches}
	if diff := cmp.Diff(want, merged); diff != "" {
		t.Errorf("merged batch mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodePatchFrames_EmptyBatch(t *testing.T) {
	frames, err := EncodePatchFrames(3, nil)
	if err != nil {
		t.Fatalf("EncodePatchFrames: %v", err)
	}
	if len(frames) != 1 {
		t.Fatalf("got %d frames, want 1", len(frames))
	}
	if !frames[0].Flags.Has(FlagFinal) {
		t.Error("empty batch frame must carry FlagFinal")
	}
	got, err := DecodePatchFrame(frames[0].Payload)
	if err != nil {
		t.Fatalf("DecodePatchFrame: %v", err)
	}
	if got.Cycle != 3 || len(got.Patches) != 0 {
		t.Errorf("got cycle %d with %d patches, want cycle 3 with 0", got.Cycle, len(got.Patches))
	}
}

func TestEncodePatchFrames_OversizedPatch(t *testing.T) {
	patches := []Patch{{
		Op:     PatchUpdateText,
		Target: "n1",
		Text:   strings.Repeat("x", MaxPayloadSize+1),
	}}
	if _, err := EncodePatchFrames(1, patches); !errors.Is(err, ErrFrameTooLarge) {
		t.Errorf("got %v, want ErrFrameTooLarge", err)
	}
}

func TestMergePatchFrames(t *testing.T) {
	t.Run("no parts", func(t *testing.T) {
		got, err := MergePatchFrames(nil)
		if err != nil {
			t.Fatalf("MergePatchFrames: %v", err)
		}
		if got.Cycle != 0 || len(got.Patches) != 0 {
			t.Errorf("got %+v, want empty frame", got)
		}
	})

	t.Run("cycle mismatch", func(t *testing.T) {
		parts := []*PatchFrame{{Cycle: 1}, {Cycle: 2}}
		if _, err := MergePatchFrames(parts); !errors.Is(err, ErrCycleMismatch) {
			t.Errorf("got %v, want ErrCycleMismatch", err)
		}
	})
}
