// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/advisor-tui/internal/model"
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// Markdown renders assistant reply bodies for terminal display. Machine
// data blocks embedded by the backend are stripped before rendering so
// they never reach the screen.
type Markdown struct {
	renderer *glamour.TermRenderer
	width    int
}

// NewMarkdown builds a renderer wrapped at width. Rendering falls back to
// plain text when glamour cannot be initialized (unusual terminals).
func NewMarkdown(width int, dark bool) *Markdown {
	style := "light"
	if dark {
		style = "dark"
	}
	if width < 20 {
		width = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		r = nil
	}
	return &Markdown{renderer: r, width: width}
}

// Render returns content formatted for the terminal. When the full
// renderer is unavailable the text passes through as-is with only code
// fences highlighted.
func (m *Markdown) Render(content string) string {
	content = model.StripDataBlocks(content)
	if m == nil || m.renderer == nil {
		return highlightFences(content)
	}
	rendered, err := m.renderer.Render(content)
	if err != nil {
		return highlightFences(content)
	}
	return strings.Trim(rendered, "\n")
}

// highlightFences colorizes fenced code blocks in otherwise plain text.
// Unbalanced fences are left untouched.
func highlightFences(content string) string {
	parts := strings.Split(content, "```")
	if len(parts) < 3 || len(parts)%2 == 0 {
		return content
	}
	var b strings.Builder
	for i, part := range parts {
		if i%2 == 0 {
			b.WriteString(part)
			continue
		}
		lang := ""
		code := part
		if nl := strings.IndexByte(part, '\n'); nl >= 0 {
			lang = strings.TrimSpace(part[:nl])
			code = part[nl+1:]
		}
		b.WriteString(HighlightCode(code, lang))
	}
	return b.String()
}

// =============================================================================
// SYNTAX HIGHLIGHTING (Chroma-based)
// =============================================================================

// HighlightCode applies ANSI-safe syntax highlighting to one code block,
// used when the markdown renderer cannot.
func HighlightCode(code, language string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get("monokai")
	if style == nil {
		style = chromaStyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}
	return buf.String()
}
