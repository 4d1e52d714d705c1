package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Settings is the top-level tuplecheck.yaml configuration.
type Settings struct {
	// StrictTypes disables the implicit Union -> member narrowing when an
	// argument of union type is passed to a parameter of one of its members.
	StrictTypes bool `yaml:"strict_types,omitempty"`

	// LogLevel is one of debug, info, warn, error. Defaults to warn.
	LogLevel string `yaml:"log_level,omitempty"`

	// Color controls diagnostic coloring: auto (TTY only), always or never.
	Color string `yaml:"color,omitempty"`

	// Index configures the optional SQLite cross-reference index.
	Index IndexSettings `yaml:"index,omitempty"`
}

// IndexSettings describes where analysis results are persisted.
type IndexSettings struct {
	// Path is the SQLite database file. Empty disables indexing.
	Path string `yaml:"path,omitempty"`
}

const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// DefaultSettings returns the settings used when no file is given.
func DefaultSettings() *Settings {
	s := &Settings{}
	s.setDefaults()
	return s
}

// LoadSettings reads and parses a tuplecheck.yaml file.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading settings %s: %w", path, err)
	}
	return ParseSettings(data, path)
}

// ParseSettings parses settings content from bytes.
// The path argument is used only for error messages.
func ParseSettings(data []byte, path string) (*Settings, error) {
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := s.validate(path); err != nil {
		return nil, err
	}
	s.setDefaults()
	return &s, nil
}

func (s *Settings) validate(path string) error {
	switch strings.ToLower(s.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%s: invalid log_level %q (want debug, info, warn or error)", path, s.LogLevel)
	}
	switch s.Color {
	case "", ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("%s: invalid color %q (want auto, always or never)", path, s.Color)
	}
	return nil
}

func (s *Settings) setDefaults() {
	if s.LogLevel == "" {
		s.LogLevel = "warn"
	}
	s.LogLevel = strings.ToLower(s.LogLevel)
	if s.Color == "" {
		s.Color = ColorAuto
	}
}

// SlogLevel maps LogLevel onto a slog level.
func (s *Settings) SlogLevel() slog.Level {
	switch s.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
