package protocol

import (
	"errors"
	"io"
)

const (
	// FrameHeaderSize is the fixed size of the frame header in bytes.
	FrameHeaderSize = 4

	// MaxPayloadSize is the largest payload one frame can carry. Larger
	// logical messages are split across frames; see EncodePatchFrames.
	MaxPayloadSize = 65535
)

// FrameType identifies what a frame's payload contains.
type FrameType uint8

const (
	FrameHello   FrameType = 0x00 // connection setup, both directions
	FrameEvent   FrameType = 0x01 // client → server user event
	FramePatches FrameType = 0x02 // server → client patch batch
	FrameControl FrameType = 0x03 // ping/pong, resync, close
	FrameAck     FrameType = 0x04 // client → server applied-cycle ack
	FrameError   FrameType = 0x05 // error report, both directions
)

// String returns the frame type name.
func (ft FrameType) String() string {
	switch ft {
	case FrameHello:
		return "Hello"
	case FrameEvent:
		return "Event"
	case FramePatches:
		return "Patches"
	case FrameControl:
		return "Control"
	case FrameAck:
		return "Ack"
	case FrameError:
		return "Error"
	default:
		return "Unknown"
	}
}

// FrameFlags carry per-frame bits. Undefined bits are reserved and must
// be zero.
type FrameFlags uint8

// FlagFinal marks the last frame of a split patch batch. Single-frame
// batches set it too.
const FlagFinal FrameFlags = 0x01

// Has reports whether flag is set.
func (ff FrameFlags) Has(flag FrameFlags) bool {
	return ff&flag != 0
}

// Frame errors.
var (
	ErrFrameTooLarge    = errors.New("protocol: frame payload too large")
	ErrUnknownFrameType = errors.New("protocol: unknown frame type")
)

// Frame is one wire message: a 4-byte header (type, flags, big-endian
// payload length) followed by the payload.
type Frame struct {
	Type    FrameType
	Flags   FrameFlags
	Payload []byte
}

// NewFrame returns a frame with no flags set.
func NewFrame(ft FrameType, payload []byte) *Frame {
	return &Frame{Type: ft, Payload: payload}
}

// NewFrameWithFlags returns a frame with the given flags.
func NewFrameWithFlags(ft FrameType, flags FrameFlags, payload []byte) *Frame {
	return &Frame{Type: ft, Flags: flags, Payload: payload}
}

// Encode returns the frame as bytes, header included.
func (f *Frame) Encode() []byte {
	length := len(f.Payload)
	buf := make([]byte, FrameHeaderSize+length)
	buf[0] = byte(f.Type)
	buf[1] = byte(f.Flags)
	buf[2] = byte(length >> 8)
	buf[3] = byte(length)
	copy(buf[FrameHeaderSize:], f.Payload)
	return buf
}

// EncodeTo appends the frame to the encoder.
func (f *Frame) EncodeTo(e *Encoder) {
	e.WriteByte(byte(f.Type))
	e.WriteByte(byte(f.Flags))
	e.WriteUint16(uint16(len(f.Payload)))
	e.WriteBytes(f.Payload)
}

// DecodeFrame decodes one frame from data, copying the payload. data
// must contain the complete frame.
func DecodeFrame(data []byte) (*Frame, error) {
	ft, flags, length, err := DecodeFrameHeader(data)
	if err != nil {
		return nil, err
	}
	if len(data) < FrameHeaderSize+length {
		return nil, io.ErrUnexpectedEOF
	}
	payload := make([]byte, length)
	copy(payload, data[FrameHeaderSize:FrameHeaderSize+length])
	return &Frame{Type: ft, Flags: flags, Payload: payload}, nil
}

// DecodeFrameHeader decodes just the header, returning the type, flags
// and payload length.
func DecodeFrameHeader(data []byte) (FrameType, FrameFlags, int, error) {
	if len(data) < FrameHeaderSize {
		return 0, 0, 0, io.ErrUnexpectedEOF
	}
	ft := FrameType(data[0])
	if ft > FrameError {
		return 0, 0, 0, ErrUnknownFrameType
	}
	flags := FrameFlags(data[1])
	length := int(data[2])<<8 | int(data[3])
	return ft, flags, length, nil
}

// ReadFrame reads one complete frame from r.
func ReadFrame(r io.Reader) (*Frame, error) {
	header := make([]byte, FrameHeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}
	ft, flags, length, err := DecodeFrameHeader(header)
	if err != nil {
		return nil, err
	}

	payload := make([]byte, length)
	if length > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, err
		}
	}
	return &Frame{Type: ft, Flags: flags, Payload: payload}, nil
}

// WriteFrame writes one complete frame to w.
func WriteFrame(w io.Writer, f *Frame) error {
	if len(f.Payload) > MaxPayloadSize {
		return ErrFrameTooLarge
	}
	_, err := w.Write(f.Encode())
	return err
}
