package live

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/arbor-dev/arbor"
	"github.com/arbor-dev/arbor/pkg/protocol"
	"github.com/arbor-dev/arbor/pkg/reconcile"
	"github.com/arbor-dev/arbor/pkg/vtree"
)

var errSessionClosed = errors.New("live: session closed")

// command is one unit of work for the session goroutine.
type command struct {
	event  *protocol.EventFrame
	resync bool
}

// Session is one connected client: a websocket, an app model, and a
// render loop against an id-minting sink. The model, the loop, and the
// app callbacks all live on the session goroutine; the read loop only
// decodes frames and queues commands.
type Session struct {
	// ID is the server-minted identifier echoed in the server hello.
	ID string

	app    App
	config *Config
	conn   *websocket.Conn
	loop   *arbor.Loop
	model  any

	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *metrics
	onClose func(*Session)

	writeMu sync.Mutex

	commands  chan command
	done      chan struct{}
	closed    atomic.Bool
	closeOnce sync.Once

	sentCycle  atomic.Uint64
	ackedCycle atomic.Uint64
}

func generateSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("live: crypto/rand failed: %v", err))
	}
	return hex.EncodeToString(b)
}

func newSession(conn *websocket.Conn, app App, config *Config, logger *slog.Logger, tracer trace.Tracer, m *metrics, onClose func(*Session)) *Session {
	s := &Session{
		ID:       generateSessionID(),
		app:      app,
		config:   config,
		conn:     conn,
		tracer:   tracer,
		metrics:  m,
		onClose:  onClose,
		commands: make(chan command, config.EventQueueSize),
		done:     make(chan struct{}),
	}
	s.logger = logger.With("session", s.ID)
	s.model = app.Init()
	s.loop = arbor.NewLoop(reconcile.NewSink(), config.Root, func(b *vtree.Builder) *vtree.Node {
		return app.View(b, s.model)
	}, arbor.WithLogger(s.logger), arbor.WithPatchObserver(s.streamPatches))
	return s
}

// start launches the session loops. The handshake must be complete.
func (s *Session) start() {
	go s.readLoop()
	go s.heartbeat()
	go s.run()
}

// run is the session goroutine: it mounts the initial tree, then
// processes queued events and resync requests until the session closes.
func (s *Session) run() {
	s.renderCycle(context.Background(), "mount")

	for {
		select {
		case cmd := <-s.commands:
			if cmd.resync {
				s.resync()
			} else {
				s.handleEvent(cmd.event)
			}
		case <-s.done:
			return
		}
	}
}

// readLoop decodes incoming frames until the connection dies. Events
// and resync requests are queued for the session goroutine; control
// plumbing is answered inline.
func (s *Session) readLoop() {
	defer s.close(nil)

	for {
		s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read failed", "err", err)
			}
			return
		}

		f, err := protocol.DecodeFrame(data)
		if err != nil {
			s.logger.Warn("bad frame", "err", err)
			s.sendError(protocol.CodeBadFrame, "frame decode failed", false)
			continue
		}

		switch f.Type {
		case protocol.FrameEvent:
			s.enqueueEvent(f.Payload)
		case protocol.FrameControl:
			if s.handleControl(f.Payload) {
				return
			}
		case protocol.FrameAck:
			s.handleAck(f.Payload)
		default:
			s.logger.Warn("unexpected frame", "type", f.Type.String())
			s.sendError(protocol.CodeBadFrame, "unexpected frame type "+f.Type.String(), false)
		}
	}
}

func (s *Session) enqueueEvent(payload []byte) {
	ev, err := protocol.DecodeEventFrame(payload)
	if err != nil {
		s.logger.Warn("bad event frame", "err", err)
		s.sendError(protocol.CodeBadEvent, "event decode failed", false)
		return
	}
	select {
	case s.commands <- command{event: ev}:
	default:
		s.metrics.eventsTotal.WithLabelValues(eventRejected).Inc()
		s.sendError(protocol.CodeRateLimited, "event queue full", false)
	}
}

// handleControl answers one control message. A true return means the
// client announced it is going away and the read loop should stop.
func (s *Session) handleControl(payload []byte) (closing bool) {
	cf, err := protocol.DecodeControlFrame(payload)
	if err != nil {
		s.logger.Warn("bad control frame", "err", err)
		s.sendError(protocol.CodeBadFrame, "control decode failed", false)
		return false
	}

	switch cf.Type {
	case protocol.ControlPing:
		s.writeControl(protocol.NewPong(cf))
	case protocol.ControlPong:
		// Answer to our heartbeat.
	case protocol.ControlResync:
		// Resync must not be dropped under load; block the read loop
		// until the session goroutine has room.
		select {
		case s.commands <- command{resync: true}:
		case <-s.done:
		}
	case protocol.ControlClose:
		s.logger.Info("client closing", "reason", cf.Reason.String(), "message", cf.Message)
		return true
	default:
		s.logger.Warn("unknown control type", "type", cf.Type.String())
	}
	return false
}

func (s *Session) handleAck(payload []byte) {
	ack, err := protocol.DecodeAck(payload)
	if err != nil {
		s.logger.Warn("bad ack frame", "err", err)
		return
	}
	s.ackedCycle.Store(ack.Cycle)
	if lag := s.Lag(); lag > 1 {
		s.logger.Debug("client lagging", "cycles", lag)
	}
}

// Lag reports how many sent cycles the client has yet to acknowledge.
func (s *Session) Lag() uint64 {
	sent, acked := s.sentCycle.Load(), s.ackedCycle.Load()
	if acked >= sent {
		return 0
	}
	return sent - acked
}

// handleEvent routes one client event through the registry, applies the
// resulting message to the model, and renders.
func (s *Session) handleEvent(ev *protocol.EventFrame) {
	ctx, span := s.tracer.Start(context.Background(), "live.event",
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("arbor.session", s.ID),
			attribute.String("arbor.target", string(ev.Target)),
			attribute.String("arbor.slot", ev.Name),
		))
	defer span.End()

	msg, ok := s.loop.Dispatch(ev.Target, ev.Event())
	if !ok {
		// The node was unmounted by a cycle the client had not yet
		// applied when it sent the event. Expected during bursts.
		s.metrics.eventsTotal.WithLabelValues(eventStale).Inc()
		span.SetStatus(codes.Ok, "stale")
		s.logger.Debug("stale event", "target", string(ev.Target), "slot", ev.Name)
		return
	}

	s.model = s.app.Update(s.model, msg)
	if s.renderCycle(ctx, "event") {
		s.metrics.eventsTotal.WithLabelValues(eventHandled).Inc()
		span.SetStatus(codes.Ok, "")
	} else {
		span.SetStatus(codes.Error, "render failed")
	}
}

// renderCycle runs one render. The loop's patch observer streams any
// patches to the client before Render returns. Render errors here are
// construction errors — the sink target never fails — so the previous
// tree stands and the client just keeps its current view.
func (s *Session) renderCycle(ctx context.Context, trigger string) bool {
	ctx, span := s.tracer.Start(ctx, "live.render",
		trace.WithAttributes(attribute.String("arbor.trigger", trigger)))
	defer span.End()

	res, err := s.loop.Render(ctx)
	s.metrics.renderSeconds.Observe(res.Duration.Seconds())
	span.SetAttributes(
		attribute.Int64("arbor.cycle", int64(res.Cycle)),
		attribute.Int("arbor.patches", res.Patches),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Error("render failed", "trigger", trigger, "err", err)
		s.sendError(protocol.CodeRenderFailed, "render failed", false)
		return false
	}
	span.SetStatus(codes.Ok, "")
	return true
}

// streamPatches is the loop's patch observer: it lowers each committed
// cycle's patches to wire form and writes them out.
func (s *Session) streamPatches(cycle uint64, patches []vtree.Patch) {
	if len(patches) == 0 {
		return
	}
	pf, err := protocol.FromTree(cycle, patches)
	if err != nil {
		s.logger.Error("patch lowering failed", "cycle", cycle, "err", err)
		s.sendError(protocol.CodeInternal, "patch encoding failed", true)
		return
	}
	s.sendPatchFrame(pf)
}

func (s *Session) sendPatchFrame(pf *protocol.PatchFrame) {
	frames, err := protocol.EncodePatchFrames(pf.Cycle, pf.Patches)
	if err != nil {
		s.logger.Error("patch encoding failed", "cycle", pf.Cycle, "err", err)
		s.sendError(protocol.CodeInternal, "patch encoding failed", true)
		return
	}
	for _, f := range frames {
		if err := s.writeFrame(f); err != nil {
			return
		}
	}
	s.sentCycle.Store(pf.Cycle)
	s.metrics.patchesSent.Add(float64(len(pf.Patches)))
	s.metrics.framesSent.Add(float64(len(frames)))
}

// resync answers a client request for a full rebuild: the committed
// tree is mounted again from scratch and sent as one batch. The client
// clears its container before applying it (see protocol.ControlResync).
func (s *Session) resync() {
	_, span := s.tracer.Start(context.Background(), "live.resync",
		trace.WithAttributes(attribute.String("arbor.session", s.ID)))
	defer span.End()

	patches, err := s.loop.Remount()
	if err != nil {
		// No committed tree yet; the initial render will cover it.
		span.SetStatus(codes.Error, err.Error())
		s.logger.Warn("resync without committed tree", "err", err)
		return
	}
	pf, err := protocol.FromTree(s.loop.Cycle(), patches)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Error("resync lowering failed", "err", err)
		s.sendError(protocol.CodeInternal, "patch encoding failed", true)
		return
	}
	s.sendPatchFrame(pf)
	span.SetStatus(codes.Ok, "")
}

// heartbeat pings the client on the configured interval. A write
// failure closes the session via the write path.
func (s *Session) heartbeat() {
	ticker := time.NewTicker(s.config.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ping := protocol.NewPing(uint64(time.Now().UnixMilli()))
			if err := s.writeControl(ping); err != nil {
				return
			}
		case <-s.done:
			return
		}
	}
}

func (s *Session) writeControl(cf *protocol.ControlFrame) error {
	return s.writeFrame(protocol.NewFrame(protocol.FrameControl, protocol.EncodeControlFrame(cf)))
}

func (s *Session) sendError(code protocol.ErrorCode, message string, fatal bool) {
	ef := protocol.NewError(code, message)
	if fatal {
		ef = protocol.NewFatalError(code, message)
	}
	s.writeFrame(protocol.NewFrame(protocol.FrameError, protocol.EncodeErrorFrame(ef)))
	if fatal {
		s.close(ef)
	}
}

// writeFrame writes one frame under the write lock. The first write
// failure closes the session; later writes return errSessionClosed.
func (s *Session) writeFrame(f *protocol.Frame) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.closed.Load() {
		return errSessionClosed
	}
	data := f.Encode()
	s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	if err := s.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
		s.logger.Error("write failed", "type", f.Type.String(), "err", err)
		s.close(err)
		return err
	}
	s.metrics.bytesSent.Add(float64(len(data)))
	return nil
}

// shutdown notifies the client that the server is going away, then
// closes.
func (s *Session) shutdown() {
	s.writeControl(protocol.NewClose(protocol.CloseShutdown, "server shutting down"))
	s.close(nil)
}

func (s *Session) close(cause error) {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		close(s.done)
		s.conn.Close()
		if s.onClose != nil {
			s.onClose(s)
		}
		if cause != nil {
			s.logger.Info("session closed", "cause", cause)
		} else {
			s.logger.Info("session closed")
		}
	})
}
