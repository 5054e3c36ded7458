// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	want := Default()
	if cfg.API.BaseURL != want.API.BaseURL || cfg.UI.Language != want.UI.Language {
		t.Errorf("missing file should yield defaults, got %+v", cfg)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.API.BaseURL = "http://localhost:9000"
	cfg.UI.Language = "ru"
	cfg.UI.Theme = "light"
	cfg.UI.TypewriterIntervalMS = 5
	if err := SaveToPath(cfg, path); err != nil {
		t.Fatalf("SaveToPath: %v", err)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if loaded.API.BaseURL != "http://localhost:9000" {
		t.Errorf("base_url = %q", loaded.API.BaseURL)
	}
	if loaded.UI.Language != "ru" || loaded.UI.Theme != "light" {
		t.Errorf("ui = %+v", loaded.UI)
	}
	if loaded.UI.TypewriterIntervalMS != 5 {
		t.Errorf("typewriter_interval_ms = %d", loaded.UI.TypewriterIntervalMS)
	}
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	os.WriteFile(path, []byte("[ui]\nlanguage = \"ru\"\n"), 0600)

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.UI.Language != "ru" {
		t.Errorf("language = %q, want ru", cfg.UI.Language)
	}
	if cfg.API.BaseURL != Default().API.BaseURL {
		t.Errorf("unset api section must keep defaults, got %q", cfg.API.BaseURL)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ADVISOR_API_URL", "http://localhost:1234/")
	t.Setenv("ADVISOR_LANG", "ru")
	t.Setenv("ADVISOR_LOG_LEVEL", "DEBUG")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.API.BaseURL != "http://localhost:1234" {
		t.Errorf("base_url = %q, trailing slash should be trimmed", cfg.API.BaseURL)
	}
	if cfg.UI.Language != "ru" {
		t.Errorf("language = %q", cfg.UI.Language)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q, should be lowercased", cfg.Log.Level)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty base url", func(c *Config) { c.API.BaseURL = "" }},
		{"zero timeout", func(c *Config) { c.API.TimeoutSecs = 0 }},
		{"unknown theme", func(c *Config) { c.UI.Theme = "solarized" }},
		{"unknown language", func(c *Config) { c.UI.Language = "de" }},
		{"negative typewriter", func(c *Config) { c.UI.TypewriterIntervalMS = -1 }},
		{"unknown log level", func(c *Config) { c.Log.Level = "trace" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
