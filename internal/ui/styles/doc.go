// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the advisor TUI.
// The theme resolves to concrete colors at construction time so the
// configured mode ("dark", "light", "auto") is honored even on terminals
// whose background detection disagrees with the user's preference.
package styles
