// Package live hosts arbor apps over websockets.
//
// A Server owns one App — Init, Update, View — and runs one Session per
// connection. Each session renders against an id-minting sink and
// streams the resulting patch frames to its client; the client applies
// them in patch order, minting the same ids, so the two sides agree on
// every node identity without ids ever crossing the wire (see
// pkg/protocol).
//
// The HTTP surface is a chi router:
//
//	GET /                  server-rendered page (first paint)
//	GET /live              websocket endpoint
//	GET /healthz           liveness probe
//	GET /metrics           Prometheus metrics
//	GET /_arbor/client.js  embedded diagnostic client
//
// A session's lifecycle:
//
//	hello exchange         first frame must be a ClientHello
//	initial render         full-tree patch batch for the mount container
//	event loop             Event frame → Dispatch → Update → Render → Patches
//	control plumbing       ping/pong heartbeat, resync, close
//	ack accounting         client acks applied cycles; Lag measures the gap
//
// The model, the render loop and the app callbacks are confined to the
// session goroutine. The read loop only decodes frames and queues work,
// so a slow render never stalls frame decoding, and an event burst past
// the queue size is rejected with a RateLimited error frame rather than
// unbounded buffering.
package live
