package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/quickwritereader/flatpack/access"
)

// Config drives both inspection and -demo output.
type Config struct {
	InitialSize   int
	Dedup         bool
	ForceDefaults bool
	Identifier    string
	SizePrefixed  bool
	Schema        string
	Root          string
}

func DefaultConfig() Config {
	return Config{
		InitialSize: 1024,
		Dedup:       true,
	}
}

type fileConfig struct {
	InitialSize   int    `toml:"initial_size"`
	Dedup         bool   `toml:"dedup"`
	ForceDefaults bool   `toml:"force_defaults"`
	Identifier    string `toml:"identifier"`
	SizePrefixed  bool   `toml:"size_prefixed"`
	Schema        string `toml:"schema"`
	Root          string `toml:"root"`
}

// loadConfig applies the keys present in the file over DefaultConfig.
func loadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load fbinspect config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("load fbinspect config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("initial_size") {
		if raw.InitialSize < 0 {
			return Config{}, fmt.Errorf("initial_size must not be negative, got %d", raw.InitialSize)
		}
		cfg.InitialSize = raw.InitialSize
	}
	if meta.IsDefined("dedup") {
		cfg.Dedup = raw.Dedup
	}
	if meta.IsDefined("force_defaults") {
		cfg.ForceDefaults = raw.ForceDefaults
	}
	if meta.IsDefined("identifier") {
		cfg.Identifier = strings.TrimSpace(raw.Identifier)
	}
	if meta.IsDefined("size_prefixed") {
		cfg.SizePrefixed = raw.SizePrefixed
	}
	if meta.IsDefined("schema") {
		cfg.Schema = strings.TrimSpace(raw.Schema)
	}
	if meta.IsDefined("root") {
		cfg.Root = strings.TrimSpace(raw.Root)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.Identifier != "" && len(c.Identifier) != 4 {
		return fmt.Errorf("identifier %q must be 4 bytes", c.Identifier)
	}
	return nil
}

func (c Config) newBuilder() *access.Builder {
	return access.NewBuilder(c.InitialSize,
		access.WithDedup(c.Dedup),
		access.WithForceDefaults(c.ForceDefaults),
	)
}
