package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cfg.ListenAddr(); got != "127.0.0.1:38000" {
		t.Errorf("ListenAddr = %s, want 127.0.0.1:38000", got)
	}
	if cfg.Database.Path != "" {
		t.Errorf("database path = %q, want empty (runtime default)", cfg.Database.Path)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cardbox.yaml")
	data := "server:\n  port: 9999\ndatabase:\n  path: /tmp/test.db\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("port = %d, want 9999", cfg.Server.Port)
	}
	// Unset keys keep their defaults.
	if cfg.Server.Bind != "127.0.0.1" {
		t.Errorf("bind = %s, want default", cfg.Server.Bind)
	}
	if cfg.Database.Path != "/tmp/test.db" {
		t.Errorf("database path = %s, want /tmp/test.db", cfg.Database.Path)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load with missing file: %v", err)
	}
	if cfg.Server.Port != 38000 {
		t.Errorf("port = %d, want default", cfg.Server.Port)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("CARDBOX_SERVER_PORT", "4242")
	t.Setenv("CARDBOX_SERVER_BIND", "0.0.0.0")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cfg.ListenAddr(); got != "0.0.0.0:4242" {
		t.Errorf("ListenAddr = %s, want 0.0.0.0:4242", got)
	}
}

func TestEnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cardbox.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 9999\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CARDBOX_SERVER_PORT", "4242")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 4242 {
		t.Errorf("port = %d, want env override 4242", cfg.Server.Port)
	}
}
