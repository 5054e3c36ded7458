// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package i18n

import "testing"

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		lang string
		key  string
		want string
	}{
		{"english", English, "chat.placeholder", "Type a message…"},
		{"russian", Russian, "chat.placeholder", "Введите сообщение…"},
		{"unknown language falls back to english", "de", "chat.placeholder", "Type a message…"},
		{"unknown key returns the key", English, "chat.nope", "chat.nope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := T(tt.lang, tt.key); got != tt.want {
				t.Errorf("T(%q, %q) = %q, want %q", tt.lang, tt.key, got, tt.want)
			}
		})
	}
}

func TestCatalogsCoverSameKeys(t *testing.T) {
	for key := range translations[English] {
		if _, ok := translations[Russian][key]; !ok {
			t.Errorf("key %q missing from russian catalog", key)
		}
	}
	for key := range translations[Russian] {
		if _, ok := translations[English][key]; !ok {
			t.Errorf("key %q missing from english catalog", key)
		}
	}
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		locale string
		want   string
	}{
		{"ru_RU.UTF-8", Russian},
		{"en_US.UTF-8", English},
		{"de_DE.UTF-8", English},
		{"", English},
	}
	for _, tt := range tests {
		t.Run("locale "+tt.locale, func(t *testing.T) {
			t.Setenv("LC_ALL", tt.locale)
			t.Setenv("LC_MESSAGES", "")
			t.Setenv("LANG", "")
			if got := DetectLanguage(); got != tt.want {
				t.Errorf("DetectLanguage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTranslatorBindsProvider(t *testing.T) {
	lang := English
	tr := Translator(func() string { return lang })
	if got := tr("settings.title"); got != "Settings" {
		t.Errorf("tr = %q", got)
	}
	lang = Russian
	if got := tr("settings.title"); got != "Настройки" {
		t.Errorf("tr after switch = %q", got)
	}
}
