package config

import (
	"os"
	"path/filepath"
	"testing"
)

const validYAML = `
server:
  host: "0.0.0.0"
  port: 9090
session:
  limit: 10
  idle_timeout_minutes: 5
bounds:
  max_repetitions: 40
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestLoadValid verifies YAML values override the defaults while untouched
// fields keep them.
func TestLoadValid(t *testing.T) {
	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("server.host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Session.Limit != 10 {
		t.Errorf("session.limit = %d, want 10", cfg.Session.Limit)
	}
	if cfg.Session.IdleTimeoutMinutes != 5 {
		t.Errorf("session.idle_timeout_minutes = %d, want 5", cfg.Session.IdleTimeoutMinutes)
	}
	if cfg.Bounds.MaxRepetitions != 40 {
		t.Errorf("bounds.max_repetitions = %d, want 40", cfg.Bounds.MaxRepetitions)
	}
	// Defaults survive a partial file.
	if cfg.Bounds.MinRepetitions != 5 {
		t.Errorf("bounds.min_repetitions = %d, want default 5", cfg.Bounds.MinRepetitions)
	}
	if cfg.Session.GracePeriodSeconds != 60 {
		t.Errorf("session.grace_period_seconds = %d, want default 60", cfg.Session.GracePeriodSeconds)
	}
}

// TestEnvOverride verifies that FENCINGDRILL_ env vars take precedence over
// YAML values.
func TestEnvOverride(t *testing.T) {
	t.Setenv("FENCINGDRILL_SERVER_PORT", "7000")
	t.Setenv("FENCINGDRILL_SESSION_LIMIT", "3")
	t.Setenv("FENCINGDRILL_TS_ENABLED", "true")
	t.Setenv("FENCINGDRILL_TS_HOSTNAME", "drill-test")

	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("server.port = %d, want 7000", cfg.Server.Port)
	}
	if cfg.Session.Limit != 3 {
		t.Errorf("session.limit = %d, want 3", cfg.Session.Limit)
	}
	if !cfg.Tailscale.Enabled {
		t.Error("tailscale.enabled = false, want true")
	}
	if cfg.Tailscale.Hostname != "drill-test" {
		t.Errorf("tailscale.hostname = %q, want %q", cfg.Tailscale.Hostname, "drill-test")
	}
}

// TestLoadMissingFile verifies a missing config file is an error.
func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

// TestLoadInvalidYAML verifies malformed YAML is rejected.
func TestLoadInvalidYAML(t *testing.T) {
	if _, err := Load(writeTemp(t, "server: [not a map")); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

// TestValidateRejectsBadBounds verifies inverted bounds fail validation.
func TestValidateRejectsBadBounds(t *testing.T) {
	bad := `
bounds:
  min_repetitions: 50
  max_repetitions: 5
`
	if _, err := Load(writeTemp(t, bad)); err == nil {
		t.Error("expected validation error for inverted repetition bounds")
	}
}
