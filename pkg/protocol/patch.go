package protocol

import (
	"errors"
	"fmt"
	"sort"

	"github.com/arbor-dev/arbor/pkg/vtree"
)

// PatchOp identifies one wire patch operation. Values match
// vtree.PatchOp, so engine ops cast directly.
type PatchOp uint8

const (
	PatchCreate      PatchOp = 0x01
	PatchRemove      PatchOp = 0x02
	PatchReplace     PatchOp = 0x03
	PatchUpdateText  PatchOp = 0x04
	PatchUpdateAttrs PatchOp = 0x05
	PatchReorder     PatchOp = 0x06
)

// String returns the operation name, matching the engine's spelling.
func (op PatchOp) String() string {
	switch op {
	case PatchCreate:
		return "create"
	case PatchRemove:
		return "remove"
	case PatchReplace:
		return "replace"
	case PatchUpdateText:
		return "update_text"
	case PatchUpdateAttrs:
		return "update_attrs"
	case PatchReorder:
		return "reorder"
	default:
		return "unknown"
	}
}

// ErrUnknownPatchOp is returned for an operation byte outside the known
// range. The stream position is undefined after it, so decoding stops.
var ErrUnknownPatchOp = errors.New("protocol: unknown patch op")

// Move is one reorder step: put Target at child position To.
type Move struct {
	Target vtree.MountID
	To     int
}

// AttrPatch is the wire form of an attribute change: keys to remove,
// then key/value pairs to set. Handler semantics are already applied at
// lowering time, so the client applies it verbatim.
type AttrPatch struct {
	Removed []string
	Set     []WireAttr
}

// Patch is one wire patch. Which fields are meaningful depends on Op,
// mirroring the engine's patch vocabulary.
type Patch struct {
	Op     PatchOp
	Parent vtree.MountID
	Target vtree.MountID
	Index  int // create position; -1 appends
	Node   *WireNode
	Text   string
	Attrs  *AttrPatch
	Moves  []Move
}

// PatchFrame is one render cycle's patch batch.
type PatchFrame struct {
	Cycle   uint64
	Patches []Patch
}

// FromTree lowers engine patches to wire form: create and replace
// subtrees become WireNodes, attribute patches reduce to remove/set
// lists with handler rules applied, and reorder moves keep only target
// and destination. Handler-only attribute patches lower to nothing and
// are dropped.
func FromTree(cycle uint64, patches []vtree.Patch) (*PatchFrame, error) {
	out := &PatchFrame{Cycle: cycle, Patches: make([]Patch, 0, len(patches))}
	for i := range patches {
		p := &patches[i]
		wp := Patch{
			Op:     PatchOp(p.Op),
			Parent: p.Parent,
			Target: p.Target,
			Index:  p.Index,
		}
		switch p.Op {
		case vtree.OpCreate, vtree.OpReplace:
			node, err := NodeToWire(p.Node)
			if err != nil {
				return nil, err
			}
			wp.Node = node

		case vtree.OpUpdateText:
			wp.Text = p.Text

		case vtree.OpUpdateAttrs:
			wp.Attrs = lowerAttrs(p.Attrs)
			if wp.Attrs == nil {
				continue
			}

		case vtree.OpReorder:
			wp.Moves = make([]Move, len(p.Moves))
			for j, mv := range p.Moves {
				wp.Moves[j] = Move{Target: mv.Target, To: mv.To}
			}

		case vtree.OpRemove:
			// Parent and target only.

		default:
			return nil, fmt.Errorf("%w: %d", ErrUnknownPatchOp, p.Op)
		}
		out.Patches = append(out.Patches, wp)
	}
	return out, nil
}

// lowerAttrs reduces an engine attribute patch to wire form. A value
// flipping from string to handler becomes a removal; handler-to-handler
// rebinding and handler additions vanish. Returns nil when nothing
// remains for the client.
func lowerAttrs(ap *vtree.AttrPatch) *AttrPatch {
	if ap == nil {
		return nil
	}
	out := &AttrPatch{}
	for _, at := range ap.Removed {
		if at.Value.IsHandler() {
			continue
		}
		out.Removed = append(out.Removed, at.Key)
	}
	for _, ch := range ap.Changed {
		switch {
		case ch.Old.IsHandler() && ch.New.IsHandler():
		case ch.New.IsHandler():
			out.Removed = append(out.Removed, ch.Key)
		default:
			out.Set = append(out.Set, WireAttr{Key: ch.Key, Value: ch.New.Text()})
		}
	}
	for _, at := range ap.Added {
		if at.Value.IsHandler() {
			continue
		}
		out.Set = append(out.Set, WireAttr{Key: at.Key, Value: at.Value.Text()})
	}
	if len(out.Removed) == 0 && len(out.Set) == 0 {
		return nil
	}
	sort.Strings(out.Removed)
	sort.Slice(out.Set, func(i, j int) bool { return out.Set[i].Key < out.Set[j].Key })
	return out
}

// EncodePatchFrame encodes f into a single payload with no size cap.
// Use EncodePatchFrames when the result must fit web frames.
func EncodePatchFrame(f *PatchFrame) []byte {
	e := NewEncoder()
	EncodePatchFrameTo(e, f)
	return e.Bytes()
}

// EncodePatchFrameTo appends the encoding of f.
func EncodePatchFrameTo(e *Encoder, f *PatchFrame) {
	e.WriteUvarint(f.Cycle)
	e.WriteUvarint(uint64(len(f.Patches)))
	for i := range f.Patches {
		encodePatch(e, &f.Patches[i])
	}
}

func encodePatch(e *Encoder, p *Patch) {
	e.WriteByte(byte(p.Op))
	switch p.Op {
	case PatchCreate:
		e.WriteString(string(p.Parent))
		e.WriteSvarint(int64(p.Index))
		EncodeWireNode(e, p.Node)

	case PatchRemove:
		e.WriteString(string(p.Parent))
		e.WriteString(string(p.Target))

	case PatchReplace:
		e.WriteString(string(p.Parent))
		e.WriteString(string(p.Target))
		EncodeWireNode(e, p.Node)

	case PatchUpdateText:
		e.WriteString(string(p.Target))
		e.WriteString(p.Text)

	case PatchUpdateAttrs:
		e.WriteString(string(p.Target))
		if p.Attrs == nil {
			e.WriteUvarint(0)
			e.WriteUvarint(0)
			return
		}
		e.WriteUvarint(uint64(len(p.Attrs.Removed)))
		for _, k := range p.Attrs.Removed {
			e.WriteString(k)
		}
		e.WriteUvarint(uint64(len(p.Attrs.Set)))
		for _, a := range p.Attrs.Set {
			e.WriteString(a.Key)
			e.WriteString(a.Value)
		}

	case PatchReorder:
		e.WriteString(string(p.Parent))
		e.WriteUvarint(uint64(len(p.Moves)))
		for _, mv := range p.Moves {
			e.WriteString(string(mv.Target))
			e.WriteUvarint(uint64(mv.To))
		}
	}
}

// DecodePatchFrame decodes one patch batch with default limits.
func DecodePatchFrame(data []byte) (*PatchFrame, error) {
	return DecodePatchFrameFrom(NewDecoder(data))
}

// DecodePatchFrameFrom decodes one patch batch from the decoder.
func DecodePatchFrameFrom(d *Decoder) (*PatchFrame, error) {
	cycle, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}
	count, err := d.ReadCount()
	if err != nil {
		return nil, err
	}
	f := &PatchFrame{Cycle: cycle, Patches: make([]Patch, count)}
	for i := 0; i < count; i++ {
		if err := decodePatch(d, &f.Patches[i]); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func decodePatch(d *Decoder, p *Patch) error {
	opByte, err := d.ReadByte()
	if err != nil {
		return err
	}
	p.Op = PatchOp(opByte)

	switch p.Op {
	case PatchCreate:
		parent, err := d.ReadString()
		if err != nil {
			return err
		}
		p.Parent = vtree.MountID(parent)
		idx, err := d.ReadSvarint()
		if err != nil {
			return err
		}
		p.Index = int(idx)
		p.Node, err = DecodeWireNode(d)
		return err

	case PatchRemove:
		parent, err := d.ReadString()
		if err != nil {
			return err
		}
		target, err := d.ReadString()
		if err != nil {
			return err
		}
		p.Parent = vtree.MountID(parent)
		p.Target = vtree.MountID(target)
		return nil

	case PatchReplace:
		parent, err := d.ReadString()
		if err != nil {
			return err
		}
		target, err := d.ReadString()
		if err != nil {
			return err
		}
		p.Parent = vtree.MountID(parent)
		p.Target = vtree.MountID(target)
		p.Node, err = DecodeWireNode(d)
		return err

	case PatchUpdateText:
		target, err := d.ReadString()
		if err != nil {
			return err
		}
		p.Target = vtree.MountID(target)
		p.Text, err = d.ReadString()
		return err

	case PatchUpdateAttrs:
		target, err := d.ReadString()
		if err != nil {
			return err
		}
		p.Target = vtree.MountID(target)
		removed, err := d.ReadCount()
		if err != nil {
			return err
		}
		ap := &AttrPatch{}
		if removed > 0 {
			ap.Removed = make([]string, removed)
			for i := 0; i < removed; i++ {
				if ap.Removed[i], err = d.ReadString(); err != nil {
					return err
				}
			}
		}
		set, err := d.ReadCount()
		if err != nil {
			return err
		}
		if set > 0 {
			ap.Set = make([]WireAttr, set)
			for i := 0; i < set; i++ {
				if ap.Set[i].Key, err = d.ReadString(); err != nil {
					return err
				}
				if ap.Set[i].Value, err = d.ReadString(); err != nil {
					return err
				}
			}
		}
		if len(ap.Removed) > 0 || len(ap.Set) > 0 {
			p.Attrs = ap
		}
		return nil

	case PatchReorder:
		parent, err := d.ReadString()
		if err != nil {
			return err
		}
		p.Parent = vtree.MountID(parent)
		count, err := d.ReadCount()
		if err != nil {
			return err
		}
		p.Moves = make([]Move, count)
		for i := 0; i < count; i++ {
			target, err := d.ReadString()
			if err != nil {
				return err
			}
			to, err := d.ReadUvarint()
			if err != nil {
				return err
			}
			p.Moves[i] = Move{Target: vtree.MountID(target), To: int(to)}
		}
		return nil

	default:
		return fmt.Errorf("%w: 0x%02X", ErrUnknownPatchOp, opByte)
	}
}

// EncodePatchFrames encodes a batch into one or more Patches frames,
// splitting when a payload would exceed MaxPayloadSize. Every frame
// repeats the cycle; the last carries FlagFinal. Returns
// ErrFrameTooLarge when a single patch cannot fit a frame on its own.
func EncodePatchFrames(cycle uint64, patches []Patch) ([]*Frame, error) {
	scratch := NewEncoder()
	encoded := make([][]byte, len(patches))
	for i := range patches {
		scratch.Reset()
		encodePatch(scratch, &patches[i])
		b := make([]byte, scratch.Len())
		copy(b, scratch.Bytes())
		encoded[i] = b
	}

	cycleLen := uvarintLen(cycle)
	var frames []*Frame
	start := 0
	for start < len(encoded) {
		size := 0
		end := start
		for end < len(encoded) {
			next := size + len(encoded[end])
			if cycleLen+uvarintLen(uint64(end-start+1))+next > MaxPayloadSize {
				break
			}
			size = next
			end++
		}
		if end == start {
			return nil, fmt.Errorf("%w: patch %d needs %d bytes", ErrFrameTooLarge, start, len(encoded[start]))
		}

		e := NewEncoderWithCap(cycleLen + 2 + size)
		e.WriteUvarint(cycle)
		e.WriteUvarint(uint64(end - start))
		for i := start; i < end; i++ {
			e.WriteBytes(encoded[i])
		}
		frames = append(frames, NewFrame(FramePatches, e.Bytes()))
		start = end
	}

	if len(frames) == 0 {
		e := NewEncoder()
		e.WriteUvarint(cycle)
		e.WriteUvarint(0)
		frames = append(frames, NewFrame(FramePatches, e.Bytes()))
	}
	frames[len(frames)-1].Flags |= FlagFinal
	return frames, nil
}

// ErrCycleMismatch is returned when split batch parts disagree on the
// cycle they belong to.
var ErrCycleMismatch = errors.New("protocol: split batch cycle mismatch")

// MergePatchFrames reassembles the parts of a split batch, in order,
// into a single frame.
func MergePatchFrames(parts []*PatchFrame) (*PatchFrame, error) {
	if len(parts) == 0 {
		return &PatchFrame{}, nil
	}
	out := &PatchFrame{Cycle: parts[0].Cycle}
	for _, part := range parts {
		if part.Cycle != out.Cycle {
			return nil, fmt.Errorf("%w: %d then %d", ErrCycleMismatch, out.Cycle, part.Cycle)
		}
		out.Patches = append(out.Patches, part.Patches...)
	}
	return out, nil
}

// uvarintLen returns the encoded size of v.
func uvarintLen(v uint64) int {
	n := 1
	for v >= 0x80 {
		n++
		v >>= 7
	}
	return n
}
