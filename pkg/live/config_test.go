package live

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", cfg.Addr)
	}
	if cfg.Root != "arbor-root" {
		t.Errorf("Root = %q, want arbor-root", cfg.Root)
	}
	if cfg.ReadTimeout != 60*time.Second {
		t.Errorf("ReadTimeout = %v, want 60s", cfg.ReadTimeout)
	}
	if cfg.ReadTimeout <= cfg.HeartbeatInterval {
		t.Errorf("ReadTimeout %v must exceed HeartbeatInterval %v",
			cfg.ReadTimeout, cfg.HeartbeatInterval)
	}
	if cfg.MaxMessageSize != 64*1024 {
		t.Errorf("MaxMessageSize = %d, want 64KB", cfg.MaxMessageSize)
	}
	if cfg.CheckOrigin == nil {
		t.Error("CheckOrigin not set")
	}
	if cfg.Registry == nil {
		t.Error("Registry not set")
	}
}

func TestConfig_Clone(t *testing.T) {
	orig := DefaultConfig()
	clone := orig.Clone()

	clone.Addr = ":9999"
	clone.ReadTimeout = time.Second
	if orig.Addr != ":8080" || orig.ReadTimeout != 60*time.Second {
		t.Error("mutating the clone changed the original")
	}

	var nilCfg *Config
	if nilCfg.Clone() != nil {
		t.Error("Clone of nil should be nil")
	}
}

func TestConfig_Normalized(t *testing.T) {
	partial := &Config{ReadTimeout: 5 * time.Second, Title: "demo"}
	n := partial.normalized()

	if n.ReadTimeout != 5*time.Second {
		t.Errorf("ReadTimeout = %v, want the configured 5s", n.ReadTimeout)
	}
	if n.Title != "demo" {
		t.Errorf("Title = %q, want demo", n.Title)
	}
	if n.Addr != ":8080" || n.WriteTimeout != 10*time.Second || n.EventQueueSize != 64 {
		t.Errorf("defaults not filled: %+v", n)
	}
	if n.Registry == nil || n.CheckOrigin == nil {
		t.Error("nil fields not filled")
	}
	if partial.Addr != "" {
		t.Error("normalized mutated its receiver")
	}

	var nilCfg *Config
	if nilCfg.normalized() == nil {
		t.Fatal("normalized of nil should yield defaults")
	}
}
