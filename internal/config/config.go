// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/advisor-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the complete advisor configuration.
type Config struct {
	Version string `toml:"version"`

	API APIConfig `toml:"api"`
	UI  UIConfig  `toml:"ui"`
	Log LogConfig `toml:"log"`
}

// APIConfig configures the backend gateway.
type APIConfig struct {
	// BaseURL is the advisor backend endpoint.
	BaseURL string `toml:"base_url"`
	// TimeoutSecs bounds non-chat requests.
	TimeoutSecs int `toml:"timeout_secs"`
	// MaxRetries is the retry budget for idempotent reads.
	MaxRetries int `toml:"max_retries"`
}

// UIConfig configures the terminal UI.
type UIConfig struct {
	// Theme is "dark", "light" or "auto" (follow the terminal background).
	Theme string `toml:"theme"`
	// Language is the UI and assistant language: "en" or "ru".
	Language string `toml:"language"`
	// TypewriterIntervalMS is the per-character reveal delay for
	// assistant replies. 0 disables the animation.
	TypewriterIntervalMS int `toml:"typewriter_interval_ms"`
}

// LogConfig configures file logging.
type LogConfig struct {
	// Level is "debug", "info", "warn" or "error".
	Level string `toml:"level"`
	// File is the log file path; empty means ~/.advisor/advisor.log.
	File string `toml:"file"`
}

// Default returns a Config with the built-in defaults.
func Default() *Config {
	return &Config{
		Version: "1.0.0",
		API: APIConfig{
			BaseURL:     "http://84.201.149.99:8080",
			TimeoutSecs: 30,
			MaxRetries:  3,
		},
		UI: UIConfig{
			Theme:                "dark",
			Language:             "en",
			TypewriterIntervalMS: 15,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// =============================================================================
// PATH HELPERS
// =============================================================================

// ConfigDir returns the advisor configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".advisor"), nil
}

// StateDir returns the directory holding persisted store snapshots.
func StateDir() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "state"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// LogPath returns the effective log file path for the config.
func (c *Config) LogPath() (string, error) {
	if c.Log.File != "" {
		return c.Log.File, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "advisor.log"), nil
}

// EnsureConfigDir creates the config directory if needed.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

// Load reads the config file, applies environment overrides and
// validates. A missing file yields the defaults.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads a config from an explicit file path.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if err := loadTOML(cfg, path); err != nil {
		return nil, err
	}
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadTOML decodes the file into cfg on top of the defaults. A missing
// file is not an error.
func loadTOML(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Save writes the config to the default path.
func Save(cfg *Config) error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveToPath(cfg, path)
}

// SaveToPath writes the config as TOML to an explicit path.
func SaveToPath(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# advisor configuration\n\n")
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return util.AtomicWriteFile(path, buf.Bytes(), 0600)
}

// =============================================================================
// VALIDATION
// =============================================================================

var (
	validThemes    = map[string]bool{"dark": true, "light": true, "auto": true}
	validLanguages = map[string]bool{"en": true, "ru": true}
	validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
)

// Validate checks the config for values the rest of the app cannot work
// with.
func (c *Config) Validate() error {
	if _, err := url.ParseRequestURI(c.API.BaseURL); err != nil {
		return fmt.Errorf("api.base_url %q: %w", c.API.BaseURL, err)
	}
	if c.API.TimeoutSecs <= 0 {
		return fmt.Errorf("api.timeout_secs must be positive, got %d", c.API.TimeoutSecs)
	}
	if c.API.MaxRetries < 1 {
		return fmt.Errorf("api.max_retries must be at least 1, got %d", c.API.MaxRetries)
	}
	if !validThemes[c.UI.Theme] {
		return fmt.Errorf("ui.theme must be dark, light or auto, got %q", c.UI.Theme)
	}
	if !validLanguages[c.UI.Language] {
		return fmt.Errorf("ui.language must be en or ru, got %q", c.UI.Language)
	}
	if c.UI.TypewriterIntervalMS < 0 {
		return fmt.Errorf("ui.typewriter_interval_ms must not be negative, got %d", c.UI.TypewriterIntervalMS)
	}
	if !validLogLevels[c.Log.Level] {
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies ADVISOR_* environment variables on top of the
// loaded config:
//   - ADVISOR_API_URL: overrides api.base_url
//   - ADVISOR_TIMEOUT_SECS: overrides api.timeout_secs
//   - ADVISOR_LANG: overrides ui.language
//   - ADVISOR_THEME: overrides ui.theme
//   - ADVISOR_TYPEWRITER_MS: overrides ui.typewriter_interval_ms
//   - ADVISOR_LOG_LEVEL: overrides log.level
//   - ADVISOR_LOG_FILE: overrides log.file
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("ADVISOR_API_URL"); v != "" {
		c.API.BaseURL = strings.TrimSuffix(v, "/")
	}
	if v := os.Getenv("ADVISOR_TIMEOUT_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.API.TimeoutSecs = n
		}
	}
	if v := os.Getenv("ADVISOR_LANG"); v != "" {
		c.UI.Language = v
	}
	if v := os.Getenv("ADVISOR_THEME"); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv("ADVISOR_TYPEWRITER_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.UI.TypewriterIntervalMS = n
		}
	}
	if v := os.Getenv("ADVISOR_LOG_LEVEL"); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv("ADVISOR_LOG_FILE"); v != "" {
		c.Log.File = v
	}
}
