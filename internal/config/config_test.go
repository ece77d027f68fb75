package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LIVEBROWSE_SERVER", "")
	t.Setenv("RECONNECT_DELAY", "")
	t.Setenv("LOCALE", "")
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_TIME", "")
	t.Setenv("LANG", "de_DE.UTF-8")
	t.Setenv("TZ", "UTC")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ServerURL != "http://localhost:8080" {
		t.Errorf("ServerURL = %q", cfg.ServerURL)
	}
	if cfg.ReconnectDelay != 3*time.Second {
		t.Errorf("ReconnectDelay = %s, want 3s", cfg.ReconnectDelay)
	}
	if !cfg.DropStaleLoads {
		t.Error("DropStaleLoads should default to true")
	}
	if cfg.Locale != "de-DE" {
		t.Errorf("Locale = %q, want de-DE", cfg.Locale)
	}
	if cfg.LoadAttempts != 1 {
		t.Errorf("LoadAttempts = %d, want 1", cfg.LoadAttempts)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("LIVEBROWSE_SERVER", "https://files.example.com")
	t.Setenv("RECONNECT_DELAY", "500ms")
	t.Setenv("DROP_STALE_LOADS", "false")
	t.Setenv("LOAD_ATTEMPTS", "garbage")
	t.Setenv("TZ", "UTC")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ServerURL != "https://files.example.com" {
		t.Errorf("ServerURL = %q", cfg.ServerURL)
	}
	if cfg.ReconnectDelay != 500*time.Millisecond {
		t.Errorf("ReconnectDelay = %s", cfg.ReconnectDelay)
	}
	if cfg.DropStaleLoads {
		t.Error("DropStaleLoads should be false")
	}
	if cfg.LoadAttempts != 1 {
		t.Errorf("invalid LOAD_ATTEMPTS should fall back to 1, got %d", cfg.LoadAttempts)
	}
}

func TestValidateRejectsBadServer(t *testing.T) {
	tests := []string{"ftp://host", "localhost:8080", "http://"}
	for _, server := range tests {
		cfg := &Config{ServerURL: server, LoadAttempts: 1, ReconnectDelay: time.Second}
		if err := cfg.Validate(); err == nil {
			t.Errorf("Validate(%q): expected error", server)
		}
	}
}
