// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/advisor-tui/internal/model"
	"github.com/jeranaias/advisor-tui/internal/ui/components"
)

// View renders the conversation screen.
func (m Model) View() string {
	if m.ctxEditor != nil {
		return m.viewContextEditor()
	}

	var b strings.Builder

	title := m.tr("chat.advisor")
	if conv, ok := m.store.Get(m.conversationID); ok {
		title = conv.DisplayTitle()
		if n := conv.Context.FieldCount(); n > 0 {
			title += " " + m.theme.Subtitle.Render("◆")
		}
	}
	b.WriteString(m.theme.Header.Width(m.width).Render(m.theme.Title.Render(title)))
	b.WriteString("\n")

	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	if m.isSending {
		b.WriteString(m.theme.Hint.Render(m.spin.View() + " " + m.tr("chat.thinking") + "…"))
	} else if m.status != "" {
		b.WriteString(m.status)
	}
	b.WriteString("\n")

	b.WriteString(m.theme.InputBar.Width(m.width).Render(m.input.View()))
	b.WriteString("\n")
	b.WriteString(m.theme.Hint.Render(m.tr("chat.hint") + " • " + m.tr("chat.context")))

	return m.theme.App.Render(b.String())
}

// refreshViewport re-renders the transcript and pins the view to the
// newest message.
func (m *Model) refreshViewport() {
	var b strings.Builder
	for i, msg := range m.messages {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderMessage(msg))
		b.WriteString("\n")
	}
	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

func (m *Model) renderMessage(msg model.Message) string {
	width := m.theme.BubbleWidth()

	var label string
	var bubble lipgloss.Style
	var body string

	switch {
	case m.errorBubbles[msg.ID]:
		label = m.tr("chat.advisor")
		bubble = m.theme.ErrorBubble
		body = msg.Content

	case msg.Role == model.RoleUser:
		label = m.tr("chat.you")
		bubble = m.theme.UserBubble
		body = msg.Content

	case msg.ID == m.typingMessageID:
		// Mid-reveal: show the raw prefix; markdown would reflow on
		// every tick.
		label = m.tr("chat.advisor")
		bubble = m.theme.AssistantBubble
		body = m.typewriter.View()

	default:
		label = m.tr("chat.advisor")
		bubble = m.theme.AssistantBubble
		body = m.markdown.Render(msg.Content)
	}

	out := m.theme.RoleLabel.Render(label) + "\n" + bubble.MaxWidth(width).Render(body)

	if msg.HasFiles() && msg.ID != m.typingMessageID {
		for _, att := range msg.Files {
			out += "\n" + components.RenderAttachment(m.theme.Attachment, att)
		}
	}
	return out
}

func (m Model) viewContextEditor() string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render(m.tr("context.title")))
	b.WriteString("\n\n")
	b.WriteString(m.ctxEditor.View(m.theme, m.tr))
	b.WriteString("\n\n")
	b.WriteString(m.theme.Hint.Render("←/→ • enter " + m.tr("common.save") + " • esc " + m.tr("common.cancel") + " • ctrl+l " + m.tr("context.clear")))

	box := m.theme.ModalBox.Render(b.String())
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}
