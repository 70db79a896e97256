// Package config loads engine tuning parameters from INI text, mirroring
// baldhumanity-neat-go's neat/config.go struct-tag-bound configuration
// records almost directly — the same ini:"field_name" tags and
// gopkg.in/ini.v1 loader, retargeted from NEAT hyperparameters to arena
// capacities and engine knobs.
package config

import (
	"strings"

	"gopkg.in/ini.v1"

	"github.com/nnengine/nodenet/core"
)

// ArenaConfig fixes the flat-array capacities at construction time. See the
// arena-resize Open Question resolution in DESIGN.md: these never grow
// after New.
type ArenaConfig struct {
	MaxNodes      int `ini:"max_nodes"`
	MaxElements   int `ini:"max_elements"`
	MaxNodespaces int `ini:"max_nodespaces"`
}

// EngineConfig selects the numeric precision and matrix backing the step
// engine uses. Workers is validated (>= 1) but not read by the step engine,
// which runs on a single goroutine.
type EngineConfig struct {
	Precision  string `ini:"precision"`   // "float32" or "float64"
	MatrixMode string `ini:"matrix_mode"` // "dense" or "sparse"
	Workers    int    `ini:"workers"`
}

// PersistenceConfig holds a save directory and archive extension.
// nodenet.Save and nodenet.Load take explicit file paths and do not read
// these fields.
type PersistenceConfig struct {
	Directory        string `ini:"directory"`
	ArchiveExtension string `ini:"archive_extension"`
}

// NativeConfig lists the native-module manifest files to load at startup.
type NativeConfig struct {
	ManifestPaths []string `ini:"manifest_paths" delim:" "`
}

// Config is the full set of engine configuration sections.
type Config struct {
	Arena       ArenaConfig       `ini:"arena"`
	Engine      EngineConfig      `ini:"engine"`
	Persistence PersistenceConfig `ini:"persistence"`
	Native      NativeConfig      `ini:"native"`
}

// Default returns the built-in configuration used when no file is supplied.
func Default() *Config {
	return &Config{
		Arena:       ArenaConfig{MaxNodes: 4096, MaxElements: 32768, MaxNodespaces: 256},
		Engine:      EngineConfig{Precision: "float64", MatrixMode: "dense", Workers: 1},
		Persistence: PersistenceConfig{Directory: ".", ArchiveExtension: ".ndnarchive"},
	}
}

// Load parses an INI file at path into a Config seeded with Default values,
// then validates it.
func Load(path string) (*Config, error) {
	cfg := Default()
	file, err := ini.Load(path)
	if err != nil {
		return nil, core.Wrap(core.InvalidConfig, err, "loading config %s", path)
	}
	if err := file.MapTo(cfg); err != nil {
		return nil, core.Wrap(core.InvalidConfig, err, "mapping config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.Arena.MaxNodes < 2 {
		return core.Errorf(core.InvalidConfig, "arena.max_nodes must be >= 2 (id 0 is reserved)")
	}
	if c.Arena.MaxElements < 1 {
		return core.Errorf(core.InvalidConfig, "arena.max_elements must be >= 1")
	}
	if c.Arena.MaxNodespaces < 2 {
		return core.Errorf(core.InvalidConfig, "arena.max_nodespaces must be >= 2 (id 0 reserved, id 1 is root)")
	}
	switch c.Engine.Precision {
	case "float32", "float64":
	default:
		return core.Errorf(core.InvalidConfig, "engine.precision must be float32 or float64, got %q", c.Engine.Precision)
	}
	switch strings.ToLower(c.Engine.MatrixMode) {
	case "dense", "sparse":
	default:
		return core.Errorf(core.InvalidConfig, "engine.matrix_mode must be dense or sparse, got %q", c.Engine.MatrixMode)
	}
	if c.Engine.Workers < 1 {
		return core.Errorf(core.InvalidConfig, "engine.workers must be >= 1")
	}
	return nil
}
