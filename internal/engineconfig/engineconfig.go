// Package engineconfig loads the small set of tunables graft's components
// leave configurable rather than hard-coding, in the same TOML-via-BurntSushi
// style tide uses for its own settings file.
package engineconfig

import (
	"fmt"
	"os"
	"sync"

	"github.com/BurntSushi/toml"
)

// Config holds every tunable spec.md leaves as an engine-wide constant.
// Every field's zero value is *not* its effective default — obtain a
// Config from Default or Load (which fills unset fields with their
// defaults) rather than using a zero Config.
type Config struct {
	// Insert holds the separator used by the Inserter's InsertSibling.
	Insert InsertConfig `toml:"insert"`

	// Indent holds the Indentation Analyzer's GCD clamp bounds.
	Indent IndentConfig `toml:"indent"`

	// Refactor holds Refactor Facade defaults.
	Refactor RefactorConfig `toml:"refactor"`
}

// InsertConfig controls default separators for insertion operations.
type InsertConfig struct {
	// SiblingSeparator separates a newly inserted sibling node from its
	// neighbor. spec.md §4.5 default: "\n\n".
	SiblingSeparator string `toml:"sibling_separator"`
}

// IndentConfig controls the Indentation Analyzer's detection heuristic.
type IndentConfig struct {
	// MinUnitWidth and MaxUnitWidth clamp the detected GCD. spec.md §4.2
	// default: [1, 8].
	MinUnitWidth int `toml:"min_unit_width"`
	MaxUnitWidth int `toml:"max_unit_width"`
	// FallbackUnitWidth is used when detection is inconclusive. spec.md
	// §4.2 default: 4.
	FallbackUnitWidth int `toml:"fallback_unit_width"`
}

// RefactorConfig controls Refactor Facade defaults.
type RefactorConfig struct {
	// MoveSeparator is a separator for a moved node and its new neighbor,
	// default "\n". No Refactor Facade recipe reads it.
	MoveSeparator string `toml:"move_separator"`
}

// Default returns the Config spec.md's stated values encode: loading no
// file at all must reproduce spec-conformant behavior exactly.
func Default() Config {
	return Config{
		Insert: InsertConfig{
			SiblingSeparator: "\n\n",
		},
		Indent: IndentConfig{
			MinUnitWidth:      1,
			MaxUnitWidth:      8,
			FallbackUnitWidth: 4,
		},
		Refactor: RefactorConfig{
			MoveSeparator: "\n",
		},
	}
}

var (
	loaded   Config
	loadOnce sync.Once
	loadErr  error
)

// Load reads a TOML document at path and overlays it onto Default(),
// leaving unset fields at their spec-conformant defaults. An empty path
// (or a missing file) returns Default() with no error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("engineconfig: decoding %s: %w", path, err)
	}
	cfg.normalize()
	return cfg, nil
}

// Shared returns a process-wide Config loaded once from path (subsequent
// calls, regardless of path, return the first result). Most callers
// should prefer Load or Default directly; Shared exists for host
// applications that want one configuration for every graft builder they
// construct.
func Shared(path string) (Config, error) {
	loadOnce.Do(func() {
		loaded, loadErr = Load(path)
	})
	return loaded, loadErr
}

// normalize fills any zero-valued field left unset by a partial TOML
// document with its spec-conformant default.
func (c *Config) normalize() {
	def := Default()
	if c.Insert.SiblingSeparator == "" {
		c.Insert.SiblingSeparator = def.Insert.SiblingSeparator
	}
	if c.Indent.MinUnitWidth == 0 {
		c.Indent.MinUnitWidth = def.Indent.MinUnitWidth
	}
	if c.Indent.MaxUnitWidth == 0 {
		c.Indent.MaxUnitWidth = def.Indent.MaxUnitWidth
	}
	if c.Indent.FallbackUnitWidth == 0 {
		c.Indent.FallbackUnitWidth = def.Indent.FallbackUnitWidth
	}
	if c.Refactor.MoveSeparator == "" {
		c.Refactor.MoveSeparator = def.Refactor.MoveSeparator
	}
}
