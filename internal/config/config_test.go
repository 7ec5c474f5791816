package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != "" || cfg.Timezone != "" || cfg.DisableSeed {
		t.Fatalf("unexpected non-zero config: %+v", cfg)
	}
	if cfg.EnsureCron != "5 0 * * *" {
		t.Fatalf("ensure_cron=%q, want default", cfg.EnsureCron)
	}

	loc, err := cfg.Location()
	if err != nil {
		t.Fatalf("Location: %v", err)
	}
	if loc != time.Local {
		t.Fatalf("empty timezone should mean local, got %v", loc)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chorechart.yaml")
	data := []byte("db_path: /tmp/chores.db\ntimezone: Europe/Berlin\ndisable_seed: true\nensure_cron: \"0 6 * * *\"\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != "/tmp/chores.db" {
		t.Fatalf("db_path=%q", cfg.DBPath)
	}
	if cfg.Timezone != "Europe/Berlin" {
		t.Fatalf("timezone=%q", cfg.Timezone)
	}
	if !cfg.DisableSeed {
		t.Fatalf("disable_seed not set")
	}
	if cfg.EnsureCron != "0 6 * * *" {
		t.Fatalf("ensure_cron=%q", cfg.EnsureCron)
	}
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("db_path: [unclosed"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestLocationBadZone(t *testing.T) {
	cfg := &Config{Timezone: "Mars/Olympus_Mons"}
	if _, err := cfg.Location(); err == nil {
		t.Fatalf("expected error for unknown timezone")
	}
}
