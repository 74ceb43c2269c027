package live

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/arbor-dev/arbor/pkg/protocol"
	"github.com/arbor-dev/arbor/pkg/render"
	"github.com/arbor-dev/arbor/pkg/vtree"
)

// Server hosts one App over HTTP: a server-rendered page, a websocket
// endpoint running a session per connection, a health probe, and
// Prometheus metrics.
type Server struct {
	app      App
	config   *Config
	logger   *slog.Logger
	tracer   trace.Tracer
	metrics  *metrics
	upgrader websocket.Upgrader
	router   chi.Router
	renderer *render.Renderer

	mu       sync.Mutex
	sessions map[string]*Session

	httpServer *http.Server
}

// NewServer returns a host serving app. A nil config uses
// DefaultConfig; unset fields are filled from it.
func NewServer(app App, config *Config) (*Server, error) {
	if err := app.validate(); err != nil {
		return nil, err
	}
	config = config.normalized()

	s := &Server{
		app:     app,
		config:  config,
		logger:  slog.Default().With("component", "live"),
		tracer:  otel.Tracer("arbor/live"),
		metrics: newMetrics(config.Registry),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		renderer: render.NewRenderer(render.RendererConfig{}),
		sessions: make(map[string]*Session),
	}
	s.router = s.routes()
	return s, nil
}

// SetLogger sets the host logger. The default is slog.Default().
func (s *Server) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger.With("component", "live")
	}
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Get("/", s.handleIndex)
	r.Get("/live", s.handleLive)
	r.Get("/healthz", s.handleHealth)
	r.Get("/_arbor/client.js", s.handleClientScript)
	r.Method(http.MethodGet, "/metrics",
		promhttp.HandlerFor(s.config.Registry, promhttp.HandlerOpts{}))
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handler returns the host's routes for mounting in an external router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// handleIndex serves the initial page: a fresh model's view rendered
// inside the mount container. The markup is a first paint only — once
// the socket is up, the session's first patch batch rebuilds the
// container contents with ids both sides agree on.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	b := vtree.NewBuilder(vtree.NewArena())
	body := b.Div(vtree.ID(string(s.config.Root)), s.app.View(b, s.app.Init()))
	if err := b.Err(); err != nil {
		s.logger.Error("index build failed", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if err := b.Resolve(body); err != nil {
		s.logger.Error("index resolve failed", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	page := render.PageData{
		Body:     body,
		Title:    s.config.Title,
		LivePath: "/live",
	}
	if err := s.renderer.RenderPage(w, page); err != nil {
		s.logger.Error("page render failed", "err", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok\n"))
}

// handleLive upgrades the connection and performs the hello exchange.
// The first frame must be a ClientHello with a matching major version;
// the reply names the session and the mount container. Session ids are
// minted fresh on every connection — a client reconnecting after a
// server restart presents its stale id, gets a new one, and resyncs.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		s.logger.Warn("websocket upgrade failed", "err", err)
		return
	}

	conn.SetReadLimit(s.config.MaxMessageSize)
	conn.SetReadDeadline(time.Now().Add(s.config.HandshakeTimeout))

	_, data, err := conn.ReadMessage()
	if err != nil {
		s.logger.Warn("handshake read failed", "err", err)
		conn.Close()
		return
	}
	f, err := protocol.DecodeFrame(data)
	if err != nil || f.Type != protocol.FrameHello {
		s.rejectHello(conn, protocol.HelloBadRequest)
		conn.Close()
		return
	}
	hello, err := protocol.DecodeClientHello(f.Payload)
	if err != nil {
		s.rejectHello(conn, protocol.HelloBadRequest)
		conn.Close()
		return
	}
	if hello.Version.Major != protocol.CurrentVersion.Major {
		s.logger.Warn("version mismatch",
			"client", hello.Version.Major, "server", protocol.CurrentVersion.Major)
		s.rejectHello(conn, protocol.HelloVersionMismatch)
		conn.Close()
		return
	}

	sess := newSession(conn, s.app, s.config, s.logger, s.tracer, s.metrics, s.untrack)
	reply := &protocol.ServerHello{
		Status:    protocol.HelloOK,
		SessionID: sess.ID,
		Root:      s.config.Root,
	}
	if err := sess.writeFrame(protocol.NewFrame(protocol.FrameHello, protocol.EncodeServerHello(reply))); err != nil {
		return
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	s.metrics.sessionsActive.Inc()
	s.metrics.sessionsTotal.Inc()
	s.logger.Info("session started", "session", sess.ID, "remote", r.RemoteAddr)

	sess.start()
}

func (s *Server) rejectHello(conn *websocket.Conn, status protocol.HelloStatus) {
	reply := &protocol.ServerHello{Status: status}
	f := protocol.NewFrame(protocol.FrameHello, protocol.EncodeServerHello(reply))
	conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	conn.WriteMessage(websocket.BinaryMessage, f.Encode())
}

func (s *Server) untrack(sess *Session) {
	s.mu.Lock()
	_, known := s.sessions[sess.ID]
	delete(s.sessions, sess.ID)
	s.mu.Unlock()
	if known {
		s.metrics.sessionsActive.Dec()
	}
}

// SessionCount reports the number of connected sessions.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Run starts the server and blocks until SIGINT/SIGTERM or a listener
// error, then shuts down gracefully.
func (s *Server) Run() error {
	s.httpServer = &http.Server{
		Addr:              s.config.Addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", s.config.Addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-shutdown:
		s.logger.Info("shutting down")
		return s.Shutdown(context.Background())
	}
}

// Shutdown closes every session with a shutdown notice, then stops the
// HTTP server. Bounded by ShutdownTimeout.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.mu.Lock()
	open := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		open = append(open, sess)
	}
	s.mu.Unlock()
	for _, sess := range open {
		sess.shutdown()
	}

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown failed", "err", err)
			return err
		}
	}
	s.logger.Info("server stopped")
	return nil
}
