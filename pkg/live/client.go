package live

import (
	"crypto/sha256"
	"fmt"
	"net/http"
	"strings"
)

// diagnosticClient is the embedded fallback client: it performs the
// hello exchange, answers pings and logs the patch stream, keeping a
// served page's session alive without applying anything. Deployments
// with a real client (a binary patch applier) point
// render.PageData.ClientScript at their own bundle.
const diagnosticClient = `(function () {
  "use strict";
  var path = window.__ARBOR_LIVE__ || "/live";
  var scheme = location.protocol === "https:" ? "wss://" : "ws://";
  var ws = new WebSocket(scheme + location.host + path);
  ws.binaryType = "arraybuffer";

  function frame(type, payload) {
    var buf = new Uint8Array(4 + payload.length);
    buf[0] = type;
    buf[2] = payload.length >> 8;
    buf[3] = payload.length & 0xff;
    buf.set(payload, 4);
    return buf;
  }

  ws.onopen = function () {
    // ClientHello: version 1.0, no session to resume.
    ws.send(frame(0x00, new Uint8Array([1, 0, 0])));
  };

  ws.onmessage = function (e) {
    var data = new Uint8Array(e.data);
    if (data.length < 4) return;
    var payload = data.subarray(4);
    switch (data[0]) {
      case 0x00:
        console.debug("arbor: session established");
        break;
      case 0x02:
        console.debug("arbor: patch frame,", payload.length, "bytes (diagnostic client, not applied)");
        break;
      case 0x03:
        if (payload[0] === 0x01) {
          var pong = new Uint8Array(payload);
          pong[0] = 0x02;
          ws.send(frame(0x03, pong));
        }
        break;
      case 0x05:
        console.warn("arbor: server error frame,", payload.length, "bytes");
        break;
    }
  };

  ws.onclose = function () {
    console.debug("arbor: session closed");
  };
})();
`

var clientScriptETag = func() string {
	sum := sha256.Sum256([]byte(diagnosticClient))
	return fmt.Sprintf("%q", fmt.Sprintf("%x", sum[:8]))
}()

func (s *Server) handleClientScript(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("ETag", clientScriptETag)
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "public, max-age=0, must-revalidate")

	if etagMatches(r.Header.Get("If-None-Match"), clientScriptETag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Write([]byte(diagnosticClient))
}

func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, part := range strings.Split(header, ",") {
		candidate := strings.TrimSpace(part)
		if candidate == etag || strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}
