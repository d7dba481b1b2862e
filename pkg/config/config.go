// Package config loads riverflow CLI settings from YAML files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// File names searched by Load.
const (
	ProjectFile = ".rflow.yaml"
	UserDir     = ".rflow"
	UserFile    = "config.yaml"
)

// Config holds the effective CLI settings.
type Config struct {
	// Pretty selects human-readable diagnostics over JSON.
	Pretty bool `yaml:"pretty"`
	// Color is one of auto, always or never.
	Color string `yaml:"color"`
	// Trace is the default NDJSON trace path; empty disables tracing.
	Trace string `yaml:"trace,omitempty"`
	// JSON prints values as JSON instead of display text.
	JSON bool `yaml:"json"`

	// Source is the file the settings were read from, empty for defaults.
	Source string `yaml:"-"`
}

// Error reports a config file that exists but cannot be used.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Default returns the settings used when no config file exists.
func Default() *Config {
	return &Config{Pretty: true, Color: ColorAuto}
}

// Load reads settings for projectDir.
// Precedence: project (.rflow.yaml) → user (~/.rflow/config.yaml) → defaults.
// The first file found wins; a missing file falls through, a malformed one
// is an error.
func Load(projectDir string) (*Config, error) {
	candidates := []string{filepath.Join(projectDir, ProjectFile)}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, UserDir, UserFile))
	}

	for _, path := range candidates {
		cfg, err := LoadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return Default(), nil
}

// LoadFile reads a single config file. Fields absent from the file keep
// their default values.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	cfg.Source = path
	return cfg, nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
		return nil
	}
	return fmt.Errorf("color must be %s, %s or %s, got %q", ColorAuto, ColorAlways, ColorNever, c.Color)
}

// UseColor resolves the color mode for a stream; tty reports whether the
// stream is a terminal.
func (c *Config) UseColor(tty bool) bool {
	switch c.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	return tty
}

// Marshal renders the settings as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
