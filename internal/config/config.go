// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// SETTINGS STRUCTURES
// =============================================================================

// Settings represents the complete confgen tool configuration.
type Settings struct {
	// LogLevel is one of: debug, info, warn, error.
	LogLevel string `toml:"log_level"`

	Converter ConverterSettings `toml:"converter"`
	Watch     WatchSettings     `toml:"watch"`
	History   HistorySettings   `toml:"history"`
}

// ConverterSettings controls the optional tokenizer conversion command.
type ConverterSettings struct {
	// Command overrides the built-in python3/transformers invocation.
	// The source directory and destination path are appended as the
	// final two arguments.
	Command []string `toml:"command"`
}

// WatchSettings controls regenerate-on-change behavior.
type WatchSettings struct {
	// DebounceMs is how long to coalesce file events before a rerun.
	DebounceMs int `toml:"debounce_ms"`
}

// HistorySettings controls the local run ledger.
type HistorySettings struct {
	Enabled bool `toml:"enabled"`
	// Path is the SQLite database location (empty = ~/.confgen/history.db).
	Path string `toml:"path"`
}

// =============================================================================
// DEFAULTS AND PATHS
// =============================================================================

// Default returns Settings with sensible default values.
func Default() *Settings {
	return &Settings{
		LogLevel: "info",
		Watch:    WatchSettings{DebounceMs: 500},
		History:  HistorySettings{Enabled: true},
	}
}

// Dir returns the confgen configuration directory path.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".confgen"), nil
}

// Path returns the path to the TOML settings file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// HistoryPath resolves the run-ledger database location.
func (s *Settings) HistoryPath() (string, error) {
	if s.History.Path != "" {
		return s.History.Path, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.db"), nil
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads settings from the default TOML file, falling back to
// defaults when the file does not exist. Environment overrides are
// applied last.
func Load() (*Settings, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath reads settings from a specific TOML file. A missing file
// is not an error; defaults are used.
func LoadFromPath(path string) (*Settings, error) {
	s := Default()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, s); err != nil {
			return nil, fmt.Errorf("failed to decode settings file %s: %w", path, err)
		}
	}

	s.ApplyEnvOverrides()
	s.fillDefaults()
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return s, nil
}

// fillDefaults fills in any missing values with defaults.
func (s *Settings) fillDefaults() {
	defaults := Default()
	if s.LogLevel == "" {
		s.LogLevel = defaults.LogLevel
	}
	if s.Watch.DebounceMs == 0 {
		s.Watch.DebounceMs = defaults.Watch.DebounceMs
	}
}

// ApplyEnvOverrides applies environment variable overrides.
//
// Supported environment variables:
//   - CONFGEN_LOG_LEVEL: overrides log_level
//   - CONFGEN_HISTORY: "0"/"false" disables the run ledger
//   - CONFGEN_HISTORY_PATH: overrides history.path
//   - CONFGEN_CONVERTER: overrides converter.command (space-separated)
func (s *Settings) ApplyEnvOverrides() {
	if level := os.Getenv("CONFGEN_LOG_LEVEL"); level != "" {
		s.LogLevel = level
	}
	if h := os.Getenv("CONFGEN_HISTORY"); h != "" {
		s.History.Enabled = !(h == "0" || strings.EqualFold(h, "false"))
	}
	if path := os.Getenv("CONFGEN_HISTORY_PATH"); path != "" {
		s.History.Path = path
	}
	if cmd := os.Getenv("CONFGEN_CONVERTER"); cmd != "" {
		s.Converter.Command = strings.Fields(cmd)
	}
}

// Validate validates the settings.
func (s *Settings) Validate() error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(s.LogLevel)] {
		return fmt.Errorf("log_level: invalid level %q, must be one of: debug, info, warn, error", s.LogLevel)
	}
	if s.Watch.DebounceMs < 0 {
		return fmt.Errorf("watch.debounce_ms: must be non-negative, got %d", s.Watch.DebounceMs)
	}
	return nil
}
