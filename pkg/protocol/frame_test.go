package protocol

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestFrame_EncodeDecode(t *testing.T) {
	f := NewFrameWithFlags(FrameEvent, FlagFinal, []byte("payload"))
	encoded := f.Encode()

	if len(encoded) != FrameHeaderSize+len(f.Payload) {
		t.Fatalf("encoded length = %d, want %d", len(encoded), FrameHeaderSize+len(f.Payload))
	}

	got, err := DecodeFrame(encoded)
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	if got.Type != FrameEvent {
		t.Errorf("Type = %v, want %v", got.Type, FrameEvent)
	}
	if !got.Flags.Has(FlagFinal) {
		t.Error("FlagFinal not preserved")
	}
	if !bytes.Equal(got.Payload, f.Payload) {
		t.Errorf("Payload = %q, want %q", got.Payload, f.Payload)
	}
}

func TestFrame_EmptyPayload(t *testing.T) {
	f := NewFrame(FramePatches, nil)
	got, err := DecodeFrame(f.Encode())
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	if len(got.Payload) != 0 {
		t.Errorf("Payload = %q, want empty", got.Payload)
	}
}

func TestDecodeFrame_Errors(t *testing.T) {
	t.Run("short header", func(t *testing.T) {
		if _, err := DecodeFrame([]byte{0x00, 0x00}); !errors.Is(err, io.ErrUnexpectedEOF) {
			t.Errorf("got %v, want ErrUnexpectedEOF", err)
		}
	})

	t.Run("truncated payload", func(t *testing.T) {
		f := NewFrame(FrameAck, []byte("123456"))
		encoded := f.Encode()
		if _, err := DecodeFrame(encoded[:len(encoded)-2]); !errors.Is(err, io.ErrUnexpectedEOF) {
			t.Errorf("got %v, want ErrUnexpectedEOF", err)
		}
	})

	t.Run("unknown type", func(t *testing.T) {
		raw := []byte{0xEE, 0x00, 0x00, 0x00}
		if _, err := DecodeFrame(raw); !errors.Is(err, ErrUnknownFrameType) {
			t.Errorf("got %v, want ErrUnknownFrameType", err)
		}
	})
}

func TestFrame_ReadWrite(t *testing.T) {
	var buf bytes.Buffer
	frames := []*Frame{
		NewFrame(FrameHello, []byte{0x01}),
		NewFrameWithFlags(FramePatches, FlagFinal, []byte("abc")),
		NewFrame(FrameControl, nil),
	}
	for _, f := range frames {
		if err := WriteFrame(&buf, f); err != nil {
			t.Fatalf("WriteFrame: %v", err)
		}
	}
	for i, want := range frames {
		got, err := ReadFrame(&buf)
		if err != nil {
			t.Fatalf("ReadFrame %d: %v", i, err)
		}
		if got.Type != want.Type || got.Flags != want.Flags || !bytes.Equal(got.Payload, want.Payload) {
			t.Errorf("frame %d: got %+v, want %+v", i, got, want)
		}
	}
	if _, err := ReadFrame(&buf); err != io.EOF {
		t.Errorf("ReadFrame on empty stream = %v, want io.EOF", err)
	}
}

func TestWriteFrame_TooLarge(t *testing.T) {
	f := NewFrame(FramePatches, make([]byte, MaxPayloadSize+1))
	err := WriteFrame(io.Discard, f)
	if !errors.Is(err, ErrFrameTooLarge) {
		t.Errorf("got %v, want ErrFrameTooLarge", err)
	}
}

func TestFrame_MaxPayloadFits(t *testing.T) {
	f := NewFrame(FramePatches, make([]byte, MaxPayloadSize))
	got, err := DecodeFrame(f.Encode())
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	if len(got.Payload) != MaxPayloadSize {
		t.Errorf("Payload length = %d, want %d", len(got.Payload), MaxPayloadSize)
	}
}

func TestFrameType_String(t *testing.T) {
	cases := []struct {
		ft   FrameType
		want string
	}{
		{FrameHello, "Hello"},
		{FrameEvent, "Event"},
		{FramePatches, "Patches"},
		{FrameControl, "Control"},
		{FrameAck, "Ack"},
		{FrameError, "Error"},
		{FrameType(0x7F), "Unknown"},
	}
	for _, c := range cases {
		if got := c.ft.String(); got != c.want {
			t.Errorf("FrameType(%d).String() = %q, want %q", c.ft, got, c.want)
		}
	}
}
