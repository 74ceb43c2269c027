package protocol

import "github.com/arbor-dev/arbor/pkg/vtree"

// Version is a protocol version as major.minor. Majors must match for a
// session to proceed; minors are informational.
type Version struct {
	Major uint8
	Minor uint8
}

// CurrentVersion is the version this package speaks.
var CurrentVersion = Version{Major: 1, Minor: 0}

// HelloStatus is the server's verdict on a ClientHello.
type HelloStatus uint8

const (
	HelloOK              HelloStatus = 0x00
	HelloVersionMismatch HelloStatus = 0x01
	HelloSessionUnknown  HelloStatus = 0x02
	HelloServerBusy      HelloStatus = 0x03
	HelloInternalError   HelloStatus = 0x04
	HelloBadRequest      HelloStatus = 0x05
)

// String returns the status name.
func (hs HelloStatus) String() string {
	switch hs {
	case HelloOK:
		return "OK"
	case HelloVersionMismatch:
		return "VersionMismatch"
	case HelloSessionUnknown:
		return "SessionUnknown"
	case HelloServerBusy:
		return "ServerBusy"
	case HelloInternalError:
		return "InternalError"
	case HelloBadRequest:
		return "BadRequest"
	default:
		return "Unknown"
	}
}

// ClientHello is the first frame on a new connection. SessionID echoes
// the id the server embedded in the rendered page, tying the socket to
// the page view it came from.
type ClientHello struct {
	Version   Version
	SessionID string
}

// ServerHello answers a ClientHello. On success Root names the mount
// container id that all patch parents resolve against.
type ServerHello struct {
	Status    HelloStatus
	SessionID string
	Root      vtree.MountID
}

// EncodeClientHello encodes a ClientHello to bytes.
func EncodeClientHello(ch *ClientHello) []byte {
	e := NewEncoder()
	EncodeClientHelloTo(e, ch)
	return e.Bytes()
}

// EncodeClientHelloTo appends the encoding of ch.
func EncodeClientHelloTo(e *Encoder, ch *ClientHello) {
	e.WriteByte(ch.Version.Major)
	e.WriteByte(ch.Version.Minor)
	e.WriteString(ch.SessionID)
}

// DecodeClientHello decodes a ClientHello with default limits.
func DecodeClientHello(data []byte) (*ClientHello, error) {
	return DecodeClientHelloFrom(NewDecoder(data))
}

// DecodeClientHelloFrom decodes a ClientHello from the decoder.
func DecodeClientHelloFrom(d *Decoder) (*ClientHello, error) {
	major, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	minor, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	sessionID, err := d.ReadString()
	if err != nil {
		return nil, err
	}
	return &ClientHello{
		Version:   Version{Major: major, Minor: minor},
		SessionID: sessionID,
	}, nil
}

// EncodeServerHello encodes a ServerHello to bytes.
func EncodeServerHello(sh *ServerHello) []byte {
	e := NewEncoder()
	EncodeServerHelloTo(e, sh)
	return e.Bytes()
}

// EncodeServerHelloTo appends the encoding of sh.
func EncodeServerHelloTo(e *Encoder, sh *ServerHello) {
	e.WriteByte(byte(sh.Status))
	e.WriteString(sh.SessionID)
	e.WriteString(string(sh.Root))
}

// DecodeServerHello decodes a ServerHello with default limits.
func DecodeServerHello(data []byte) (*ServerHello, error) {
	return DecodeServerHelloFrom(NewDecoder(data))
}

// DecodeServerHelloFrom decodes a ServerHello from the decoder.
func DecodeServerHelloFrom(d *Decoder) (*ServerHello, error) {
	status, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	sessionID, err := d.ReadString()
	if err != nil {
		return nil, err
	}
	root, err := d.ReadString()
	if err != nil {
		return nil, err
	}
	return &ServerHello{
		Status:    HelloStatus(status),
		SessionID: sessionID,
		Root:      vtree.MountID(root),
	}, nil
}
