// Package config loads the CLI's settings: how many workers to run, which
// telemetry sink to back Context.Telemetry with, and whether debug-mode
// assertions are live. Grounded on nova's internal/pkg/config.go,
// which loads a sola.toml package manifest via go-toml/v2 the same way -
// Unmarshal into a plain struct, no layered defaults/env/flag merging
// library, since nova doesn't reach for one either.
package config

import (
	"fmt"
	"os"
	"runtime"

	"github.com/pelletier/go-toml/v2"
)

// FileName is the default config file path the CLI passes to Load.
const FileName = "solatype.toml"

// DebugEnvVar, when set to "1", "true", or "on", forces DebugMode on
// regardless of what the file says - the Config-level analog of
// nova's internal/lsp2/logger.go reading SOLA_LSP_DEBUG.
const DebugEnvVar = "SOLATYPE_DEBUG"

// TelemetryKind names the telemetry.Sink a Config selects.
type TelemetryKind string

const (
	TelemetryNoop   TelemetryKind = "noop"
	TelemetryAtomic TelemetryKind = "atomic"
	TelemetryZap    TelemetryKind = "zap"
)

// Config is the CLI's settings, loadable from an optional solatype.toml.
type Config struct {
	DebugMode  bool          `toml:"debug_mode"`
	Workers    int           `toml:"workers"`
	Telemetry  TelemetryKind `toml:"telemetry"`
	CacheDedup bool          `toml:"cache_dedup"`
	LSPBridge  bool          `toml:"lsp_bridge"`
}

// Default returns the Config Load falls back to when no file is present:
// debug assertions on, one worker per CPU, the noop telemetry sink, no
// dedup cache, no LSP bridge.
func Default() Config {
	return Config{
		DebugMode:  true,
		Workers:    runtime.NumCPU(),
		Telemetry:  TelemetryNoop,
		CacheDedup: false,
		LSPBridge:  false,
	}
}

// Load reads path (if it exists) and overlays it onto Default(), then
// applies the SOLATYPE_DEBUG env var override last, same precedence order
// nova's config loading implies (file first, environment wins).
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverride(&cfg)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	applyEnvOverride(&cfg)
	return cfg, nil
}

func applyEnvOverride(cfg *Config) {
	switch os.Getenv(DebugEnvVar) {
	case "1", "true", "on":
		cfg.DebugMode = true
	case "0", "false", "off":
		cfg.DebugMode = false
	}
}
