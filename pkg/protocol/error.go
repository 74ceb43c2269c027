package protocol

// ErrorCode classifies an error frame.
type ErrorCode uint16

const (
	CodeUnknown       ErrorCode = 0x0000
	CodeBadFrame      ErrorCode = 0x0001 // frame or payload failed to decode
	CodeBadEvent      ErrorCode = 0x0002 // event named no usable handler slot
	CodeUnknownTarget ErrorCode = 0x0003 // event target id not bound
	CodeRenderFailed  ErrorCode = 0x0004 // render cycle failed server-side
	CodeRateLimited   ErrorCode = 0x0005
	CodeInternal      ErrorCode = 0x0100
)

// String returns the code name.
func (ec ErrorCode) String() string {
	switch ec {
	case CodeUnknown:
		return "Unknown"
	case CodeBadFrame:
		return "BadFrame"
	case CodeBadEvent:
		return "BadEvent"
	case CodeUnknownTarget:
		return "UnknownTarget"
	case CodeRenderFailed:
		return "RenderFailed"
	case CodeRateLimited:
		return "RateLimited"
	case CodeInternal:
		return "Internal"
	default:
		return "Unknown"
	}
}

// ErrorFrame reports a failure to the peer. Fatal means the sender will
// close the connection after it.
type ErrorFrame struct {
	Code    ErrorCode
	Message string
	Fatal   bool
}

// Error implements the error interface.
func (f *ErrorFrame) Error() string {
	if f.Fatal {
		return "protocol: fatal " + f.Code.String() + ": " + f.Message
	}
	return "protocol: " + f.Code.String() + ": " + f.Message
}

// NewError returns a non-fatal error frame.
func NewError(code ErrorCode, message string) *ErrorFrame {
	return &ErrorFrame{Code: code, Message: message}
}

// NewFatalError returns a fatal error frame.
func NewFatalError(code ErrorCode, message string) *ErrorFrame {
	return &ErrorFrame{Code: code, Message: message, Fatal: true}
}

// EncodeErrorFrame encodes the frame to bytes.
func EncodeErrorFrame(f *ErrorFrame) []byte {
	e := NewEncoder()
	EncodeErrorFrameTo(e, f)
	return e.Bytes()
}

// EncodeErrorFrameTo appends the encoding of f.
func EncodeErrorFrameTo(e *Encoder, f *ErrorFrame) {
	e.WriteUint16(uint16(f.Code))
	e.WriteString(f.Message)
	e.WriteBool(f.Fatal)
}

// DecodeErrorFrame decodes an error frame with default limits.
func DecodeErrorFrame(data []byte) (*ErrorFrame, error) {
	return DecodeErrorFrameFrom(NewDecoder(data))
}

// DecodeErrorFrameFrom decodes an error frame from the decoder.
func DecodeErrorFrameFrom(d *Decoder) (*ErrorFrame, error) {
	code, err := d.ReadUint16()
	if err != nil {
		return nil, err
	}
	message, err := d.ReadString()
	if err != nil {
		return nil, err
	}
	fatal, err := d.ReadBool()
	if err != nil {
		return nil, err
	}
	return &ErrorFrame{Code: ErrorCode(code), Message: message, Fatal: fatal}, nil
}
