package tui

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestDefaultSSHServerConfig(t *testing.T) {
	cfg := DefaultSSHServerConfig()

	if cfg.Address != ":23234" {
		t.Errorf("Address = %q, expected :23234", cfg.Address)
	}
	if cfg.IdleTimeout != 30*time.Minute {
		t.Errorf("IdleTimeout = %v, expected 30m", cfg.IdleTimeout)
	}
	if cfg.TickRate != 30 {
		t.Errorf("TickRate = %d, expected 30", cfg.TickRate)
	}
}

func TestNewSSHServerCreatesHostKey(t *testing.T) {
	keyPath := filepath.Join(t.TempDir(), "keys", "host_key")

	cfg := DefaultSSHServerConfig()
	cfg.Address = "127.0.0.1:0"
	cfg.HostKeyPath = keyPath
	cfg.TickRate = 0
	cfg.Logger = log.New(io.Discard)

	srv, err := NewSSHServer(cfg, nil)
	if err != nil {
		t.Fatalf("NewSSHServer failed: %v", err)
	}
	if srv.Addr() != "127.0.0.1:0" {
		t.Errorf("Addr = %q", srv.Addr())
	}
	if srv.config.TickRate != 30 {
		t.Errorf("Expected default tick rate, got %d", srv.config.TickRate)
	}
	if srv.ActiveSessions() != 0 {
		t.Errorf("Expected no active sessions, got %d", srv.ActiveSessions())
	}
	if _, err := os.Stat(keyPath); err != nil {
		t.Errorf("Expected host key at %s: %v", keyPath, err)
	}
}
