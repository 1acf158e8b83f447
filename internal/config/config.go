package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/aeprobe/internal/logging"
	"github.com/danmuck/aeprobe/internal/protocol"
)

// Config is the aeprobe command configuration.
type Config struct {
	// Catalog is the signature catalog path (.json or .toml). Empty means no catalog.
	Catalog      string
	LogLevel     string
	Indent       string
	MaxLineBytes int
	Concurrency  int
}

type fileConfig struct {
	Catalog      string `toml:"catalog"`
	LogLevel     string `toml:"log_level"`
	Indent       string `toml:"indent"`
	MaxLineBytes int    `toml:"max_line_bytes"`
	Concurrency  int    `toml:"concurrency"`
}

func Default() Config {
	return Config{
		Catalog:      "",
		LogLevel:     "info",
		Indent:       "  ",
		MaxLineBytes: protocol.DefaultMaxLineBytes,
		Concurrency:  4,
	}
}

// Load decodes path on top of Default. Only keys present in the file override.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("config parse failed (%s): unknown key %q", path, undecoded[0].String())
	}

	if meta.IsDefined("catalog") {
		cfg.Catalog = strings.TrimSpace(raw.Catalog)
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("indent") {
		cfg.Indent = raw.Indent
	}
	if meta.IsDefined("max_line_bytes") {
		cfg.MaxLineBytes = raw.MaxLineBytes
	}
	if meta.IsDefined("concurrency") {
		cfg.Concurrency = raw.Concurrency
	}

	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	if _, ok := logging.ParseLevel(cfg.LogLevel); !ok {
		return fmt.Errorf("unknown log_level %q", cfg.LogLevel)
	}
	if strings.Trim(cfg.Indent, " \t") != "" {
		return fmt.Errorf("indent must be spaces or tabs")
	}
	if cfg.MaxLineBytes < 64 {
		return fmt.Errorf("max_line_bytes must be at least 64")
	}
	if cfg.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1")
	}
	return nil
}
