package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg := FromEnv()
	if cfg.Mode != ModeOffline {
		t.Fatalf("mode = %q", cfg.Mode)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("addr = %q", cfg.HTTPAddr)
	}
	if cfg.DBDriver != "sqlite" {
		t.Fatalf("driver = %q", cfg.DBDriver)
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Fatalf("session ttl = %v", cfg.SessionTTL)
	}
	if cfg.MixedCount != 60 {
		t.Fatalf("mixed count = %d", cfg.MixedCount)
	}
	if !cfg.RequireAnswerToAdvance {
		t.Fatalf("require answer default should be true")
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("MODE", "online")
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("MIXED_COUNT", "25")
	t.Setenv("REQUIRE_ANSWER_TO_ADVANCE", "false")
	cfg := FromEnv()
	if cfg.Mode != ModeOnline {
		t.Fatalf("mode = %q", cfg.Mode)
	}
	if cfg.HTTPAddr != ":9999" {
		t.Fatalf("addr = %q", cfg.HTTPAddr)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Fatalf("session ttl = %v", cfg.SessionTTL)
	}
	if cfg.MixedCount != 25 {
		t.Fatalf("mixed count = %d", cfg.MixedCount)
	}
	if cfg.RequireAnswerToAdvance {
		t.Fatalf("require answer should be off")
	}
}

func TestLoadYAMLOverlay(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")
	path := filepath.Join(t.TempDir(), "quizdrill.yaml")
	body := "http_addr: \":7070\"\nmixed_count: 40\nsweep_schedule: \"@every 1m\"\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":7070" {
		t.Fatalf("file should win over env, got %q", cfg.HTTPAddr)
	}
	if cfg.MixedCount != 40 {
		t.Fatalf("mixed count = %d", cfg.MixedCount)
	}
	if cfg.SweepSchedule != "@every 1m" {
		t.Fatalf("sweep schedule = %q", cfg.SweepSchedule)
	}
	// Env values not mentioned in the file survive.
	if cfg.DBDriver != "sqlite" {
		t.Fatalf("driver = %q", cfg.DBDriver)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
