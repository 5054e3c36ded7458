// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
)

// Settings are the persisted UI preferences. Language feeds the gateway's
// lang parameter; theme selects the lipgloss palette.
type Settings struct {
	Language string `json:"language"`
	Theme    string `json:"theme"`
}

// DefaultSettings are used until the user changes anything.
func DefaultSettings() Settings {
	return Settings{Language: "en", Theme: "dark"}
}

// SettingsStore persists UI preferences independently of the other stores.
type SettingsStore struct {
	mu       sync.Mutex
	settings Settings

	snap   *Snapshot
	logger *log.Logger
}

// NewSettingsStore creates the settings store and rehydrates the snapshot.
func NewSettingsStore(stateDir string, logger *log.Logger) (*SettingsStore, error) {
	snap, err := NewSnapshot(filepath.Join(stateDir, "settings.json"))
	if err != nil {
		return nil, err
	}
	s := &SettingsStore{settings: DefaultSettings(), snap: snap, logger: logger}
	if _, err := snap.Load(&s.settings); err != nil {
		logger.Warn("dropping unreadable settings snapshot", "err", err)
		s.settings = DefaultSettings()
	}
	if s.settings.Language == "" {
		s.settings.Language = "en"
	}
	if s.settings.Theme == "" {
		s.settings.Theme = "dark"
	}
	return s, nil
}

// Get returns the current settings.
func (s *SettingsStore) Get() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// Language returns the active UI language tag.
func (s *SettingsStore) Language() string {
	return s.Get().Language
}

// Theme returns the active theme name.
func (s *SettingsStore) Theme() string {
	return s.Get().Theme
}

// SetLanguage switches the UI language and persists.
func (s *SettingsStore) SetLanguage(lang string) {
	s.mu.Lock()
	s.settings.Language = lang
	s.mu.Unlock()
	s.persist()
}

// SetTheme switches the theme and persists.
func (s *SettingsStore) SetTheme(theme string) {
	s.mu.Lock()
	s.settings.Theme = theme
	s.mu.Unlock()
	s.persist()
}

func (s *SettingsStore) persist() {
	if err := s.snap.Save(s.Get()); err != nil {
		s.logger.Warn("persisting settings failed", "err", err)
	}
}
