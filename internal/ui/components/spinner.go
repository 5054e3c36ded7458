// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

// NewThinkingSpinner returns the spinner shown while the advisor composes
// a reply.
func NewThinkingSpinner(style lipgloss.Style) spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = style
	return s
}
