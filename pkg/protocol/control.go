package protocol

// ControlType identifies a control message.
type ControlType uint8

const (
	ControlPing   ControlType = 0x01 // either direction; peer answers with Pong
	ControlPong   ControlType = 0x02 // answer to Ping, echoing its timestamp
	ControlResync ControlType = 0x10 // client asks for a full rebuild
	ControlClose  ControlType = 0x20 // session is going away
)

// String returns the control type name.
func (ct ControlType) String() string {
	switch ct {
	case ControlPing:
		return "Ping"
	case ControlPong:
		return "Pong"
	case ControlResync:
		return "Resync"
	case ControlClose:
		return "Close"
	default:
		return "Unknown"
	}
}

// CloseReason says why a session is closing.
type CloseReason uint8

const (
	CloseNormal    CloseReason = 0x00
	CloseGoingAway CloseReason = 0x01
	CloseShutdown  CloseReason = 0x02
	CloseError     CloseReason = 0x03
)

// String returns the close reason name.
func (cr CloseReason) String() string {
	switch cr {
	case CloseNormal:
		return "Normal"
	case CloseGoingAway:
		return "GoingAway"
	case CloseShutdown:
		return "Shutdown"
	case CloseError:
		return "Error"
	default:
		return "Unknown"
	}
}

// ControlFrame is one control message. Time is meaningful for Ping and
// Pong (unix milliseconds, echoed back); Reason and Message for Close.
// Resync carries no payload beyond its type: the server answers with a
// Patches frame that rebuilds the whole view, and the client is
// expected to clear its container before applying it.
type ControlFrame struct {
	Type    ControlType
	Time    uint64
	Reason  CloseReason
	Message string
}

// NewPing returns a ping carrying the given timestamp.
func NewPing(unixMillis uint64) *ControlFrame {
	return &ControlFrame{Type: ControlPing, Time: unixMillis}
}

// NewPong returns the pong for a received ping.
func NewPong(ping *ControlFrame) *ControlFrame {
	return &ControlFrame{Type: ControlPong, Time: ping.Time}
}

// NewResync returns a resync request.
func NewResync() *ControlFrame {
	return &ControlFrame{Type: ControlResync}
}

// NewClose returns a close notice.
func NewClose(reason CloseReason, message string) *ControlFrame {
	return &ControlFrame{Type: ControlClose, Reason: reason, Message: message}
}

// EncodeControlFrame encodes the frame to bytes.
func EncodeControlFrame(f *ControlFrame) []byte {
	e := NewEncoder()
	EncodeControlFrameTo(e, f)
	return e.Bytes()
}

// EncodeControlFrameTo appends the encoding of f.
func EncodeControlFrameTo(e *Encoder, f *ControlFrame) {
	e.WriteByte(byte(f.Type))
	switch f.Type {
	case ControlPing, ControlPong:
		e.WriteUint64(f.Time)
	case ControlResync:
		// Type byte only.
	case ControlClose:
		e.WriteByte(byte(f.Reason))
		e.WriteString(f.Message)
	}
}

// DecodeControlFrame decodes a control message with default limits.
func DecodeControlFrame(data []byte) (*ControlFrame, error) {
	return DecodeControlFrameFrom(NewDecoder(data))
}

// DecodeControlFrameFrom decodes a control message from the decoder.
// Unknown control types decode to just their type, so new control
// messages can be added without breaking older peers.
func DecodeControlFrameFrom(d *Decoder) (*ControlFrame, error) {
	typeByte, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	f := &ControlFrame{Type: ControlType(typeByte)}

	switch f.Type {
	case ControlPing, ControlPong:
		if f.Time, err = d.ReadUint64(); err != nil {
			return nil, err
		}
	case ControlClose:
		reason, err := d.ReadByte()
		if err != nil {
			return nil, err
		}
		f.Reason = CloseReason(reason)
		if f.Message, err = d.ReadString(); err != nil {
			return nil, err
		}
	}
	return f, nil
}
