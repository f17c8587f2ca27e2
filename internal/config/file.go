// Package config reads the service environment and the CLI's TOML file.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Count CountConfig `toml:"count"`
}

// CountConfig maps counting settings. Unset keys stay nil so flags and
// built-in defaults can tell them apart from an explicit false.
type CountConfig struct {
	Headings    *bool `toml:"headings"`
	Blockquotes *bool `toml:"blockquotes"`
	CodeBlocks  *bool `toml:"code-blocks"`
	InlineCode  *bool `toml:"inline-code"`
	Footnotes   *bool `toml:"footnotes"`
	Tables      *bool `toml:"tables"`
	HTML        *bool `toml:"html"`
	Metadata    *bool `toml:"metadata"`
	All         *bool `toml:"all"`
	Jobs        *int  `toml:"jobs"`
}

// Categories returns the per-category settings keyed by option name.
func (c CountConfig) Categories() map[string]*bool {
	return map[string]*bool{
		"headings":    c.Headings,
		"blockquotes": c.Blockquotes,
		"code-blocks": c.CodeBlocks,
		"inline-code": c.InlineCode,
		"footnotes":   c.Footnotes,
		"tables":      c.Tables,
		"html":        c.HTML,
		"metadata":    c.Metadata,
	}
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
