// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package i18n provides the UI string catalog in English and Russian.
//
// Lookups take dotted keys ("chat.placeholder"). A key missing from the
// active language falls back to English; a key missing there too returns
// the key itself, which makes untranslated strings visible instead of
// blank.
package i18n
