package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Default()
	if cfg.Workers != want.Workers || cfg.Telemetry != want.Telemetry || cfg.DebugMode != want.DebugMode {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadParsesTOMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	contents := "debug_mode = false\nworkers = 4\ntelemetry = \"zap\"\ncache_dedup = true\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Workers != 4 {
		t.Fatalf("expected workers = 4, got %d", cfg.Workers)
	}
	if cfg.Telemetry != TelemetryZap {
		t.Fatalf("expected telemetry = zap, got %s", cfg.Telemetry)
	}
	if !cfg.CacheDedup {
		t.Fatalf("expected cache_dedup = true")
	}
}

func TestDebugEnvVarOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte("debug_mode = false\n"), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	t.Setenv(DebugEnvVar, "1")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.DebugMode {
		t.Fatalf("expected SOLATYPE_DEBUG=1 to override debug_mode=false in the file")
	}
}
