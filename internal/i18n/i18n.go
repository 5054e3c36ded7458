// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package i18n

import (
	"os"
	"strings"

	"golang.org/x/text/language"
)

// Languages supported by the catalog.
const (
	English = "en"
	Russian = "ru"
)

// supported is used for best-match detection against the environment.
var supported = language.NewMatcher([]language.Tag{
	language.English, // first entry is the fallback
	language.Russian,
})

// T translates a dotted key for the given language.
func T(lang, key string) string {
	if catalog, ok := translations[lang]; ok {
		if s, ok := catalog[key]; ok {
			return s
		}
	}
	if s, ok := translations[English][key]; ok {
		return s
	}
	return key
}

// Translator binds a language provider so views can call tr("key").
func Translator(lang func() string) func(string) string {
	return func(key string) string {
		return T(lang(), key)
	}
}

// DetectLanguage picks the best supported language from the locale
// environment variables, defaulting to English.
func DetectLanguage() string {
	for _, env := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		v := os.Getenv(env)
		if v == "" {
			continue
		}
		// "ru_RU.UTF-8" -> "ru-RU"
		v = strings.SplitN(v, ".", 2)[0]
		v = strings.ReplaceAll(v, "_", "-")
		tag, err := language.Parse(v)
		if err != nil {
			continue
		}
		_, idx, conf := supported.Match(tag)
		if conf >= language.High && idx == 1 {
			return Russian
		}
		return English
	}
	return English
}
