package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config carries the tool settings that are awkward as flags. Flags given on
// the command line win over the file.
type Config struct {
	// Dialect selects the wire dialect for encoding: 2 or 3.
	Dialect int `toml:"dialect"`

	// MaxBulkLen caps the declared length of a single bulk payload when
	// decoding streams. Zero keeps the built-in default.
	MaxBulkLen int64 `toml:"max_bulk_len"`

	// MaxDepth caps aggregate nesting when decoding streams. Zero keeps
	// the built-in default.
	MaxDepth int `toml:"max_depth"`

	// LogLevel is one of zerolog's level names (debug, info, warn, error).
	LogLevel string `toml:"log_level"`
}

func defaultConfig() Config {
	return Config{
		Dialect:  2,
		LogLevel: "warn",
	}
}

// loadConfig reads a TOML file over the defaults. Keys absent from the file
// keep their default values.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	for _, key := range meta.Undecoded() {
		return cfg, fmt.Errorf("unknown config key %q", key.String())
	}
	if cfg.Dialect != 2 && cfg.Dialect != 3 {
		return cfg, fmt.Errorf("config dialect must be 2 or 3, got %d", cfg.Dialect)
	}
	return cfg, nil
}
