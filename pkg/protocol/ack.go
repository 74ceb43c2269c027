package protocol

// Ack tells the server the client has applied all patches through the
// given cycle. The host uses it for lag accounting; a stalled client
// shows as a growing gap between sent and acked cycles.
type Ack struct {
	Cycle uint64
}

// EncodeAck encodes the ack to bytes.
func EncodeAck(a *Ack) []byte {
	e := NewEncoder()
	EncodeAckTo(e, a)
	return e.Bytes()
}

// EncodeAckTo appends the encoding of a.
func EncodeAckTo(e *Encoder, a *Ack) {
	e.WriteUvarint(a.Cycle)
}

// DecodeAck decodes an ack with default limits.
func DecodeAck(data []byte) (*Ack, error) {
	return DecodeAckFrom(NewDecoder(data))
}

// DecodeAckFrom decodes an ack from the decoder.
func DecodeAckFrom(d *Decoder) (*Ack, error) {
	cycle, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}
	return &Ack{Cycle: cycle}, nil
}
