// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/advisor-tui/internal/model"
	"github.com/jeranaias/advisor-tui/internal/ui/components"
)

// Update drives the chat state machine.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case components.TypewriterTickMsg:
		cmd, completed := m.typewriter.Update(msg)
		if completed {
			m.typingMessageID = ""
		}
		m.refreshViewport()
		return m, cmd

	case spinner.TickMsg:
		if !m.isSending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case sendResultMsg:
		return m.handleSendResult(msg)

	case historySyncedMsg:
		if msg.conversationID != m.conversationID {
			return m, nil
		}
		if msg.err != nil {
			m.log.Warn("history sync failed", "conversation", msg.conversationID, "error", msg.err)
			return m, nil
		}
		m.tryReconcile()
		return m, nil

	case clearJustAddedMsg:
		if m.justAdded == msg.id {
			m.justAdded = ""
			m.tryReconcile()
		}
		return m, nil

	case RefreshMsg:
		m.tryReconcile()
		return m, nil

	case attachmentSavedMsg:
		if msg.err != nil {
			m.status = m.theme.StatusErr.Render(msg.err.Error())
			m.log.Warn("attachment download failed", "error", msg.err)
		} else {
			m.status = m.theme.StatusOK.Render(m.tr("chat.download") + " " + msg.path)
		}
		return m, nil

	case contextSavedMsg:
		if msg.err != nil {
			m.status = m.theme.StatusErr.Render(msg.err.Error())
			m.log.Warn("context update failed", "conversation", m.conversationID, "error", msg.err)
		} else {
			m.status = m.theme.StatusOK.Render(m.tr("settings.saved"))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.ctxEditor != nil {
		return m.handleContextKey(msg)
	}
	return m.handleChatKey(msg)
}

func (m Model) handleContextKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	done, save := m.ctxEditor.Update(msg)
	if !done {
		return m, nil
	}
	cc := m.ctxEditor.Value()
	m.ctxEditor = nil
	if !save {
		return m, nil
	}
	return m, m.saveContextCmd(cc)
}

func (m Model) handleChatKey(msg tea.KeyMsg) (Model, tea.Cmd) {

	switch msg.String() {
	case "enter":
		return m.submit()

	case "esc":
		if m.typingMessageID != "" {
			// Skip the reveal; the full reply is already known.
			m.typewriter.Stop()
			m.typingMessageID = ""
			m.refreshViewport()
			return m, nil
		}
		return m, func() tea.Msg { return BackMsg{} }

	case "ctrl+k":
		var cc model.ConversationContext
		if conv, ok := m.store.Get(m.conversationID); ok && conv.Context != nil {
			cc = *conv.Context
		}
		m.ctxEditor = components.NewContextForm(cc)
		return m, nil

	case "ctrl+o":
		return m.downloadLatestAttachments()

	case "pgup", "pgdown", "ctrl+u", "ctrl+d":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit sends the typed message. The user message is written to the
// store before the request is dispatched, so a crash between the two
// never loses the message.
func (m Model) submit() (Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" || m.isSending {
		return m, nil
	}
	if m.typingMessageID != "" {
		m.typewriter.Stop()
		m.typingMessageID = ""
	}
	m.input.Reset()
	m.status = ""

	um := model.NewUserMessage(text)
	m.store.AppendMessage(m.conversationID, um)
	m.messages = append(m.messages, um)
	m.refreshViewport()

	return m, tea.Batch(m.sendCmd(text), m.spin.Tick)
}

func (m Model) handleSendResult(msg sendResultMsg) (Model, tea.Cmd) {
	if msg.conversationID != m.conversationID {
		// The user navigated to another conversation while the request
		// was in flight. The reply still belongs to its conversation.
		if msg.err == nil && msg.resp != nil {
			m.store.AppendMessage(msg.conversationID, msg.resp.AssistantMessage())
		}
		return m, nil
	}

	m.isSending = false
	m.sendingInitial = false

	if msg.err != nil {
		m.log.Warn("send failed", "conversation", msg.conversationID, "error", msg.err)
		bubble := model.NewMessage(model.RoleAssistant, m.tr("chat.error_prefix")+msg.err.Error())
		m.errorBubbles[bubble.ID] = true
		m.messages = append(m.messages, bubble)
		m.refreshViewport()
		return m, nil
	}

	reply := msg.resp.AssistantMessage()
	m.store.AppendMessage(m.conversationID, reply)
	if _, dup := model.MessageIDs(m.messages)[reply.ID]; !dup {
		m.messages = append(m.messages, reply)
	}

	m.justAdded = reply.ID
	m.typingMessageID = reply.ID
	tickCmd, done := m.typewriter.Start(reply.Content)
	if done {
		m.typingMessageID = ""
	}
	m.refreshViewport()
	return m, tea.Batch(tickCmd, clearJustAddedCmd(reply.ID))
}

// downloadLatestAttachments saves every attachment of the most recent
// assistant message that carries files.
func (m Model) downloadLatestAttachments() (Model, tea.Cmd) {
	var cmds []tea.Cmd
	for i := len(m.messages) - 1; i >= 0; i-- {
		msg := m.messages[i]
		if msg.Role != model.RoleAssistant || !msg.HasFiles() {
			continue
		}
		for _, att := range msg.Files {
			cmds = append(cmds, m.downloadCmd(att))
		}
		break
	}
	if len(cmds) == 0 {
		return m, nil
	}
	return m, tea.Batch(cmds...)
}
