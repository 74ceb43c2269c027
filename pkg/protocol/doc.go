// Package protocol implements the binary wire format spoken between a
// live session host and its client.
//
// # Framing
//
// Every message is a frame: a fixed 4-byte header followed by a payload
// of at most 65535 bytes.
//
//	┌─────────────┬──────────────┬───────────────────────────────┐
//	│ Frame Type  │ Flags        │ Payload Length                │
//	│ (1 byte)    │ (1 byte)     │ (2 bytes, big-endian)         │
//	└─────────────┴──────────────┴───────────────────────────────┘
//	│ Payload (variable)                                          │
//	└─────────────────────────────────────────────────────────────┘
//
// Frame types: Hello (connection setup, both directions), Event
// (client → server), Patches (server → client), Control (ping/pong,
// resync, close), Ack (client → server) and Error.
//
// # Payload encoding
//
// Payloads are built from a small set of primitives: protobuf-style
// unsigned varints, ZigZag signed varints, length-prefixed UTF-8
// strings and single-byte booleans. Encoder appends to a reusable
// buffer; Decoder reads from a byte slice and enforces DecodeLimits
// (maximum allocation, collection count and tree depth) so a hostile
// peer cannot force large allocations or deep recursion.
//
// # Identity
//
// Wire trees carry no node ids. Both sides mint mount ids in patch
// application order, so a server applying against a reconcile.Sink and
// a client applying the decoded frames agree on every id by
// construction. Patch target and parent fields carry those agreed ids.
package protocol
