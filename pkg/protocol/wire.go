package protocol

import (
	"errors"
	"fmt"
	"sort"

	"github.com/arbor-dev/arbor/pkg/vtree"
)

// WireKind tags a wire node. Only material forms cross the wire:
// collections are flattened and lazy/mapped wrappers resolved before
// encoding.
type WireKind uint8

const (
	WireElement WireKind = 0x01
	WireText    WireKind = 0x02
	WireEmpty   WireKind = 0x03
)

// wireNilMarker encodes a nil node pointer.
const wireNilMarker = 0xFF

// String returns the wire kind name.
func (k WireKind) String() string {
	switch k {
	case WireElement:
		return "element"
	case WireText:
		return "text"
	case WireEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// Wire tree errors.
var (
	ErrNotMaterial     = errors.New("protocol: node has no material form")
	ErrUnknownWireKind = errors.New("protocol: unknown wire node kind")
)

// WireAttr is one string attribute. Handler-valued attributes never
// reach the wire.
type WireAttr struct {
	Key   string
	Value string
}

// WireNode is the wire form of a materialized subtree. It carries no
// mount ids: both ends mint ids in application order and agree by
// construction.
type WireNode struct {
	Kind     WireKind
	Tag      string     // element only
	Attrs    []WireAttr // element only, sorted by key
	Children []*WireNode
	Text     string // text only
}

// NodeToWire lowers a subtree to wire form. Lazy and mapped wrappers
// are looked through, keyed collections flatten into their parent's
// child list, attributes drop handlers and sort by key. An unresolved
// lazy node or a bare collection cannot be lowered.
func NodeToWire(n *vtree.Node) (*WireNode, error) {
	if n == nil {
		return nil, nil
	}
	m := n.Material()
	if m == nil {
		return nil, ErrNotMaterial
	}
	switch m.Kind {
	case vtree.KindText:
		return &WireNode{Kind: WireText, Text: m.Text}, nil

	case vtree.KindEmpty:
		return &WireNode{Kind: WireEmpty}, nil

	case vtree.KindElement:
		w := &WireNode{Kind: WireElement, Tag: m.Tag}
		for key, v := range m.Attrs {
			if v.IsHandler() {
				continue
			}
			w.Attrs = append(w.Attrs, WireAttr{Key: key, Value: v.Text()})
		}
		sort.Slice(w.Attrs, func(i, j int) bool { return w.Attrs[i].Key < w.Attrs[j].Key })
		if err := wireChildren(w, m.Children); err != nil {
			return nil, err
		}
		return w, nil

	default:
		return nil, fmt.Errorf("%w (kind %s)", ErrNotMaterial, m.Kind)
	}
}

// wireChildren lowers a child list, flattening keyed collections the
// same way materialization does.
func wireChildren(w *WireNode, children []*vtree.Node) error {
	for _, c := range children {
		if c == nil {
			continue
		}
		if m := c.Material(); m != nil && m.Kind == vtree.KindKeyed {
			if err := wireChildren(w, m.Children); err != nil {
				return err
			}
			continue
		}
		cw, err := NodeToWire(c)
		if err != nil {
			return err
		}
		w.Children = append(w.Children, cw)
	}
	return nil
}

// EncodeWireNode appends the wire encoding of n. A nil node encodes as
// a one-byte marker.
func EncodeWireNode(e *Encoder, n *WireNode) {
	if n == nil {
		e.WriteByte(wireNilMarker)
		return
	}
	e.WriteByte(byte(n.Kind))
	switch n.Kind {
	case WireElement:
		e.WriteString(n.Tag)
		e.WriteUvarint(uint64(len(n.Attrs)))
		for _, a := range n.Attrs {
			e.WriteString(a.Key)
			e.WriteString(a.Value)
		}
		e.WriteUvarint(uint64(len(n.Children)))
		for _, c := range n.Children {
			EncodeWireNode(e, c)
		}
	case WireText:
		e.WriteString(n.Text)
	case WireEmpty:
		// Kind byte only.
	}
}

// DecodeWireNode decodes one wire node, enforcing the decoder's tree
// depth limit.
func DecodeWireNode(d *Decoder) (*WireNode, error) {
	return decodeWireNode(d, 0)
}

func decodeWireNode(d *Decoder, depth int) (*WireNode, error) {
	if depth > d.maxDepth() {
		return nil, ErrDepthExceeded
	}

	kind, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	if kind == wireNilMarker {
		return nil, nil
	}

	n := &WireNode{Kind: WireKind(kind)}
	switch n.Kind {
	case WireElement:
		if n.Tag, err = d.ReadString(); err != nil {
			return nil, err
		}
		attrCount, err := d.ReadCount()
		if err != nil {
			return nil, err
		}
		if attrCount > 0 {
			n.Attrs = make([]WireAttr, attrCount)
			for i := 0; i < attrCount; i++ {
				if n.Attrs[i].Key, err = d.ReadString(); err != nil {
					return nil, err
				}
				if n.Attrs[i].Value, err = d.ReadString(); err != nil {
					return nil, err
				}
			}
		}
		childCount, err := d.ReadCount()
		if err != nil {
			return nil, err
		}
		if childCount > 0 {
			n.Children = make([]*WireNode, childCount)
			for i := 0; i < childCount; i++ {
				if n.Children[i], err = decodeWireNode(d, depth+1); err != nil {
					return nil, err
				}
			}
		}

	case WireText:
		if n.Text, err = d.ReadString(); err != nil {
			return nil, err
		}

	case WireEmpty:
		// Kind byte only.

	default:
		return nil, fmt.Errorf("%w: 0x%02X", ErrUnknownWireKind, kind)
	}
	return n, nil
}
