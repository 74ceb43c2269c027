package protocol

import (
	"testing"
)

// FuzzReadUvarint tests that decoding arbitrary bytes doesn't panic.
func FuzzReadUvarint(f *testing.F) {
	// Seed with valid varints
	f.Add([]byte{0x00})
	f.Add([]byte{0x7F})
	f.Add([]byte{0x80, 0x01})
	f.Add([]byte{0xFF, 0x7F})
	f.Add([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x01})

	f.Fuzz(func(t *testing.T, data []byte) {
		// Should not panic
		_, _ = NewDecoder(data).ReadUvarint()
	})
}

// FuzzDecodeFrame tests that decoding arbitrary bytes doesn't panic.
func FuzzDecodeFrame(f *testing.F) {
	// Seed with valid frames
	f.Add(NewFrame(FrameEvent, []byte{0x01, 0x02}).Encode())
	f.Add(NewFrameWithFlags(FramePatches, FlagFinal, []byte("test")).Encode())
	f.Add(NewFrame(FrameControl, nil).Encode())

	f.Fuzz(func(t *testing.T, data []byte) {
		// Should not panic
		_, _ = DecodeFrame(data)
	})
}

// FuzzDecodeWireNode tests that decoding arbitrary bytes doesn't panic
// and never recurses past the depth limit.
func FuzzDecodeWireNode(f *testing.F) {
	// Seed with valid wire trees
	e := NewEncoder()
	EncodeWireNode(e, &WireNode{Kind: WireText, Text: "hello"})
	f.Add(append([]byte(nil), e.Bytes()...))

	e.Reset()
	EncodeWireNode(e, &WireNode{
		Kind:  WireElement,
		Tag:   "div",
		Attrs: []WireAttr{{Key: "class", Value: "x"}},
		Children: []*WireNode{
			{Kind: WireText, Text: "a"},
			{Kind: WireEmpty},
		},
	})
	f.Add(append([]byte(nil), e.Bytes()...))

	e.Reset()
	EncodeWireNode(e, elementChain(10))
	f.Add(append([]byte(nil), e.Bytes()...))

	f.Fuzz(func(t *testing.T, data []byte) {
		// Should not panic
		_, _ = DecodeWireNode(NewDecoder(data))
	})
}

// FuzzDecodePatchFrame tests that decoding arbitrary bytes doesn't panic.
func FuzzDecodePatchFrame(f *testing.F) {
	// Seed with a valid batch covering every op
	frame := &PatchFrame{Cycle: 3, Patches: []Patch{
		{Op: PatchCreate, Parent: "root", Index: -1, Node: &WireNode{Kind: WireText, Text: "t"}},
		{Op: PatchRemove, Parent: "root", Target: "n2"},
		{Op: PatchReplace, Parent: "root", Target: "n3", Node: &WireNode{Kind: WireEmpty}},
		{Op: PatchUpdateText, Target: "n4", Text: "x"},
		{Op: PatchUpdateAttrs, Target: "n5", Attrs: &AttrPatch{
			Removed: []string{"a"},
			Set:     []WireAttr{{Key: "b", Value: "c"}},
		}},
		{Op: PatchReorder, Parent: "root", Moves: []Move{{Target: "n6", To: 1}}},
	}}
	f.Add(EncodePatchFrame(frame))
	f.Add(EncodePatchFrame(&PatchFrame{Cycle: 0}))

	f.Fuzz(func(t *testing.T, data []byte) {
		// Should not panic
		_, _ = DecodePatchFrame(data)
	})
}

// FuzzDecodeEventFrame tests that decoding arbitrary bytes doesn't panic.
func FuzzDecodeEventFrame(f *testing.F) {
	// Seed with valid events
	f.Add(EncodeEventFrame(&EventFrame{Seq: 1, Target: "n1", Name: "click"}))
	f.Add(EncodeEventFrame(&EventFrame{Seq: 2, Target: "n5", Name: "input", Value: "hello"}))

	f.Fuzz(func(t *testing.T, data []byte) {
		// Should not panic
		_, _ = DecodeEventFrame(data)
	})
}

// FuzzDecodeControlFrame tests that decoding arbitrary bytes doesn't panic.
func FuzzDecodeControlFrame(f *testing.F) {
	// Seed with valid control messages
	f.Add(EncodeControlFrame(NewPing(12345)))
	f.Add(EncodeControlFrame(NewResync()))
	f.Add(EncodeControlFrame(NewClose(CloseNormal, "bye")))

	f.Fuzz(func(t *testing.T, data []byte) {
		// Should not panic
		_, _ = DecodeControlFrame(data)
	})
}

// FuzzVarintRoundTrip tests that every value survives encode/decode.
func FuzzVarintRoundTrip(f *testing.F) {
	f.Add(uint64(0), int64(0))
	f.Add(uint64(127), int64(-1))
	f.Add(uint64(1<<63), int64(-1<<62))

	f.Fuzz(func(t *testing.T, u uint64, s int64) {
		e := NewEncoder()
		e.WriteUvarint(u)
		e.WriteSvarint(s)
		d := NewDecoder(e.Bytes())
		gotU, err := d.ReadUvarint()
		if err != nil {
			t.Fatalf("ReadUvarint: %v", err)
		}
		gotS, err := d.ReadSvarint()
		if err != nil {
			t.Fatalf("ReadSvarint: %v", err)
		}
		if gotU != u || gotS != s {
			t.Errorf("round trip (%d, %d) = (%d, %d)", u, s, gotU, gotS)
		}
	})
}
