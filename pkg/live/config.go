package live

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/arbor-dev/arbor/pkg/vtree"
)

// Config holds configuration for the live host and its sessions.
type Config struct {
	// Addr is the address Run listens on (e.g., ":8080").
	// Default: ":8080".
	Addr string

	// Root is the mount container id: the element the rendered page
	// carries and every patch parent ultimately resolves against.
	// Default: "arbor-root".
	Root vtree.MountID

	// Title is the page title for the server-rendered shell.
	// Default: "arbor".
	Title string

	// Timeouts

	// ReadTimeout is the maximum time to wait for a message from the
	// client. It must exceed HeartbeatInterval or healthy idle
	// connections time out between pings.
	// Default: 60 seconds.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to wait when sending a message.
	// Default: 10 seconds.
	WriteTimeout time.Duration

	// HandshakeTimeout is the maximum time to wait for the client hello
	// after the websocket upgrade.
	// Default: 10 seconds.
	HandshakeTimeout time.Duration

	// HeartbeatInterval is the time between server pings.
	// Default: 30 seconds.
	HeartbeatInterval time.Duration

	// ShutdownTimeout is the maximum time Shutdown waits for in-flight
	// work before giving up.
	// Default: 30 seconds.
	ShutdownTimeout time.Duration

	// Limits

	// MaxMessageSize is the maximum size of an incoming websocket
	// message in bytes.
	// Default: 64KB.
	MaxMessageSize int64

	// EventQueueSize is the buffer of the per-session event queue.
	// Events arriving while the queue is full are rejected with a
	// RateLimited error frame.
	// Default: 64.
	EventQueueSize int

	// ReadBufferSize is the websocket read buffer size.
	// Default: 4096.
	ReadBufferSize int

	// WriteBufferSize is the websocket write buffer size.
	// Default: 4096.
	WriteBufferSize int

	// Security

	// CheckOrigin validates the Origin header during the upgrade.
	// Default: allows all origins (not recommended for production).
	CheckOrigin func(r *http.Request) bool

	// Observability

	// Registry receives the host's Prometheus metrics and backs the
	// /metrics endpoint. Each host registers its collectors exactly
	// once, so hosts must not share a registry.
	// Default: a fresh registry per host.
	Registry *prometheus.Registry
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Addr:              ":8080",
		Root:              "arbor-root",
		Title:             "arbor",
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
		HandshakeTimeout:  10 * time.Second,
		HeartbeatInterval: 30 * time.Second,
		ShutdownTimeout:   30 * time.Second,
		MaxMessageSize:    64 * 1024,
		EventQueueSize:    64,
		ReadBufferSize:    4096,
		WriteBufferSize:   4096,
		CheckOrigin:       func(*http.Request) bool { return true },
		Registry:          prometheus.NewRegistry(),
	}
}

// Clone returns a copy of the Config.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

// normalized returns a copy with every unset field filled from the
// defaults. A nil receiver yields the full default config.
func (c *Config) normalized() *Config {
	defaults := DefaultConfig()
	if c == nil {
		return defaults
	}
	n := c.Clone()
	if n.Addr == "" {
		n.Addr = defaults.Addr
	}
	if n.Root == "" {
		n.Root = defaults.Root
	}
	if n.Title == "" {
		n.Title = defaults.Title
	}
	if n.ReadTimeout == 0 {
		n.ReadTimeout = defaults.ReadTimeout
	}
	if n.WriteTimeout == 0 {
		n.WriteTimeout = defaults.WriteTimeout
	}
	if n.HandshakeTimeout == 0 {
		n.HandshakeTimeout = defaults.HandshakeTimeout
	}
	if n.HeartbeatInterval == 0 {
		n.HeartbeatInterval = defaults.HeartbeatInterval
	}
	if n.ShutdownTimeout == 0 {
		n.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if n.MaxMessageSize == 0 {
		n.MaxMessageSize = defaults.MaxMessageSize
	}
	if n.EventQueueSize == 0 {
		n.EventQueueSize = defaults.EventQueueSize
	}
	if n.ReadBufferSize == 0 {
		n.ReadBufferSize = defaults.ReadBufferSize
	}
	if n.WriteBufferSize == 0 {
		n.WriteBufferSize = defaults.WriteBufferSize
	}
	if n.CheckOrigin == nil {
		n.CheckOrigin = defaults.CheckOrigin
	}
	if n.Registry == nil {
		n.Registry = prometheus.NewRegistry()
	}
	return n
}
