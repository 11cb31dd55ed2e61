// Package claripy ties together the translation pipeline in internal/lang
// with on-disk formatting configuration and the interactive Session in
// engine.go.
package claripy

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/dekarrin/claripy/internal/lang"
)

// FormatConfig controls how the pretty-printer renders translated source.
// It is loaded from a claripy.toml file, typically in the current working
// directory or the user's config directory.
type FormatConfig struct {
	// Indent is the string used for one level of block indentation. Must
	// consist only of whitespace for PyLite output to remain parseable,
	// since PyLite blocks are delimited by indentation rather than braces.
	Indent string `toml:"indent"`

	// WrapWidth is the column at which long Print string literals are
	// wrapped when rendered as ClariPy source.
	WrapWidth int `toml:"wrap_width"`
}

// DefaultFormatConfig returns the FormatConfig used when no claripy.toml is
// present: four-space indentation and a 72-column wrap width.
func DefaultFormatConfig() FormatConfig {
	return FormatConfig{
		Indent:    "    ",
		WrapWidth: 72,
	}
}

// LoadFormatConfig reads a claripy.toml file at path and returns the
// FormatConfig it describes, with any unset fields filled from
// DefaultFormatConfig. If path does not exist, the default config is
// returned with no error.
func LoadFormatConfig(path string) (FormatConfig, error) {
	cfg := DefaultFormatConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}

	var loaded FormatConfig
	if _, err := toml.Decode(string(data), &loaded); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	if loaded.Indent != "" {
		cfg.Indent = loaded.Indent
	}
	if loaded.WrapWidth > 0 {
		cfg.WrapWidth = loaded.WrapWidth
	}

	return cfg, nil
}

// Apply installs cfg as the active formatting configuration for every
// subsequent call into the internal/lang pretty-printers. It should be
// called once at startup, before any translation is performed.
func (cfg FormatConfig) Apply() {
	lang.SetIndent(cfg.Indent)
	lang.SetPrintWidth(cfg.WrapWidth)
}
