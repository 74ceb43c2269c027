package protocol

import "github.com/arbor-dev/arbor/pkg/vtree"

// EventFrame carries one user interaction from client to server: the
// mount id it happened on, the handler slot name ("click", "input",
// ...) and the optional string value (input contents, form field, key
// name). Seq increases per connection so the server can spot gaps.
type EventFrame struct {
	Seq    uint64
	Target vtree.MountID
	Name   string
	Value  string
}

// Event converts the frame to the engine's event value.
func (f *EventFrame) Event() vtree.Event {
	return vtree.Event{Name: f.Name, Value: f.Value}
}

// EncodeEventFrame encodes the frame to bytes.
func EncodeEventFrame(f *EventFrame) []byte {
	e := NewEncoder()
	EncodeEventFrameTo(e, f)
	return e.Bytes()
}

// EncodeEventFrameTo appends the encoding of f.
func EncodeEventFrameTo(e *Encoder, f *EventFrame) {
	e.WriteUvarint(f.Seq)
	e.WriteString(string(f.Target))
	e.WriteString(f.Name)
	e.WriteString(f.Value)
}

// DecodeEventFrame decodes an event frame with default limits.
func DecodeEventFrame(data []byte) (*EventFrame, error) {
	return DecodeEventFrameFrom(NewDecoder(data))
}

// DecodeEventFrameFrom decodes an event frame from the decoder.
func DecodeEventFrameFrom(d *Decoder) (*EventFrame, error) {
	seq, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}
	target, err := d.ReadString()
	if err != nil {
		return nil, err
	}
	name, err := d.ReadString()
	if err != nil {
		return nil, err
	}
	value, err := d.ReadString()
	if err != nil {
		return nil, err
	}
	return &EventFrame{
		Seq:    seq,
		Target: vtree.MountID(target),
		Name:   name,
		Value:  value,
	}, nil
}
