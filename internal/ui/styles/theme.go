// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// =============================================================================
// PALETTES
// =============================================================================

type palette struct {
	brand      lipgloss.Color
	border     lipgloss.Color
	text       lipgloss.Color
	textDim    lipgloss.Color
	textMuted  lipgloss.Color
	userBorder lipgloss.Color
	userFg     lipgloss.Color
	botFg      lipgloss.Color
	errFg      lipgloss.Color
	okFg       lipgloss.Color
}

var darkPalette = palette{
	brand:      lipgloss.Color("#AD2023"),
	border:     lipgloss.Color("#45475A"),
	text:       lipgloss.Color("#CDD6F4"),
	textDim:    lipgloss.Color("#A6ADC8"),
	textMuted:  lipgloss.Color("#6C7086"),
	userBorder: lipgloss.Color("#1D4ED8"),
	userFg:     lipgloss.Color("#BFDBFE"),
	botFg:      lipgloss.Color("#E9E4F5"),
	errFg:      lipgloss.Color("#FB7185"),
	okFg:       lipgloss.Color("#34D399"),
}

var lightPalette = palette{
	brand:      lipgloss.Color("#AD2023"),
	border:     lipgloss.Color("#D4D4D4"),
	text:       lipgloss.Color("#1F2937"),
	textDim:    lipgloss.Color("#6B7280"),
	textMuted:  lipgloss.Color("#9CA3AF"),
	userBorder: lipgloss.Color("#2563EB"),
	userFg:     lipgloss.Color("#1E40AF"),
	botFg:      lipgloss.Color("#374151"),
	errFg:      lipgloss.Color("#E11D48"),
	okFg:       lipgloss.Color("#059669"),
}

// =============================================================================
// THEME
// =============================================================================

// Theme holds every styled component the views draw with. Build one with
// NewTheme and share it; styles are value types and cheap to copy per
// render.
type Theme struct {
	IsDark       bool
	ColorProfile termenv.Profile

	Width  int
	Height int

	App      lipgloss.Style
	Header   lipgloss.Style
	Title    lipgloss.Style
	Subtitle lipgloss.Style

	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	ErrorBubble     lipgloss.Style
	RoleLabel       lipgloss.Style

	InputBar    lipgloss.Style
	InputPrompt lipgloss.Style
	Hint        lipgloss.Style

	ListItem         lipgloss.Style
	ListItemSelected lipgloss.Style
	ListPreview      lipgloss.Style

	Spinner    lipgloss.Style
	Attachment lipgloss.Style
	StatusOK   lipgloss.Style
	StatusErr  lipgloss.Style

	ModalBox lipgloss.Style
	Label    lipgloss.Style
	Value    lipgloss.Style
}

// NewTheme builds a theme for the configured mode. "auto" follows the
// terminal background; "dark" and "light" force a palette.
func NewTheme(mode string) *Theme {
	isDark := true
	switch mode {
	case "light":
		isDark = false
	case "auto":
		isDark = termenv.HasDarkBackground()
	}

	p := darkPalette
	if !isDark {
		p = lightPalette
	}

	t := &Theme{
		IsDark:       isDark,
		ColorProfile: termenv.ColorProfile(),
	}

	t.App = lipgloss.NewStyle().Padding(0, 1)
	t.Header = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(p.border).
		Padding(0, 1)
	t.Title = lipgloss.NewStyle().Bold(true).Foreground(p.brand)
	t.Subtitle = lipgloss.NewStyle().Foreground(p.textDim)

	bubble := lipgloss.NewStyle().
		Padding(0, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.border)
	t.UserBubble = bubble.Foreground(p.userFg).BorderForeground(p.userBorder)
	t.AssistantBubble = bubble.Foreground(p.botFg)
	t.ErrorBubble = bubble.Foreground(p.errFg).BorderForeground(p.errFg)
	t.RoleLabel = lipgloss.NewStyle().Bold(true).Foreground(p.textMuted)

	t.InputBar = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(p.border).
		Padding(0, 1)
	t.InputPrompt = lipgloss.NewStyle().Foreground(p.brand).Bold(true)
	t.Hint = lipgloss.NewStyle().Foreground(p.textMuted)

	t.ListItem = lipgloss.NewStyle().Padding(0, 1).Foreground(p.text)
	t.ListItemSelected = lipgloss.NewStyle().
		Padding(0, 1).
		Bold(true).
		Foreground(p.brand)
	t.ListPreview = lipgloss.NewStyle().Foreground(p.textDim)

	t.Spinner = lipgloss.NewStyle().Foreground(p.brand)
	t.Attachment = lipgloss.NewStyle().Foreground(p.textDim).Italic(true)
	t.StatusOK = lipgloss.NewStyle().Foreground(p.okFg)
	t.StatusErr = lipgloss.NewStyle().Foreground(p.errFg).Bold(true)

	t.ModalBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.brand).
		Padding(1, 2)
	t.Label = lipgloss.NewStyle().Foreground(p.textDim)
	t.Value = lipgloss.NewStyle().Foreground(p.text).Bold(true)

	return t
}

// SetSize records the terminal dimensions for layout decisions.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// BubbleWidth returns the maximum content width for a chat bubble at the
// current terminal size.
func (t *Theme) BubbleWidth() int {
	if t.Width <= 0 {
		return 76
	}
	w := t.Width * 4 / 5
	if w < 20 {
		w = 20
	}
	return w
}
