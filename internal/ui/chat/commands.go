// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/advisor-tui/internal/gateway"
	"github.com/jeranaias/advisor-tui/internal/model"
	"github.com/jeranaias/advisor-tui/internal/ui/components"
)

// justAddedWindow is how long reconciliation stays suppressed after a
// reply is inserted, so the store catching up does not reshuffle the
// transcript the user is reading.
const justAddedWindow = 2 * time.Second

// =============================================================================
// MESSAGES
// =============================================================================

// BackMsg asks the app to leave the chat for the conversation list.
type BackMsg struct{}

// RefreshMsg tells the view the shared store changed (a background sync
// finished); it reconciles if the view is quiet.
type RefreshMsg struct{}

type sendResultMsg struct {
	conversationID string
	resp           *gateway.SendMessageResponse
	err            error
}

type historySyncedMsg struct {
	conversationID string
	err            error
}

type clearJustAddedMsg struct {
	id string
}

type attachmentSavedMsg struct {
	path string
	err  error
}

type contextSavedMsg struct {
	err error
}

// =============================================================================
// COMMANDS
// =============================================================================

// Request deadlines come from the gateway client configuration, so
// commands pass a background context.

// sendCmd dispatches text to the advisor. The optimistic user message is
// already in the store and the local transcript before this runs; the
// ordering guarantees the message survives a crash mid-request.
func (m *Model) sendCmd(text string) tea.Cmd {
	m.isSending = true

	req := gateway.SendMessageRequest{
		Message:        text,
		UserID:         m.session().UserID(),
		ConversationID: m.conversationID,
	}
	if conv, ok := m.store.Get(m.conversationID); ok {
		req.ContextFilters = conv.Context.Normalize()
	}

	gw := m.gw
	convID := m.conversationID
	return func() tea.Msg {
		resp, err := gw.SendMessage(context.Background(), req)
		return sendResultMsg{conversationID: convID, resp: resp, err: err}
	}
}

func (m *Model) syncHistoryCmd() tea.Cmd {
	st := m.store
	convID := m.conversationID
	return func() tea.Msg {
		err := st.SyncConversationHistory(context.Background(), convID)
		return historySyncedMsg{conversationID: convID, err: err}
	}
}

func clearJustAddedCmd(id string) tea.Cmd {
	return tea.Tick(justAddedWindow, func(time.Time) tea.Msg {
		return clearJustAddedMsg{id: id}
	})
}

// downloadCmd saves one attachment to the download directory, fetching
// its bytes from the gateway when they are not inline.
func (m *Model) downloadCmd(att model.FileAttachment) tea.Cmd {
	gw := m.gw
	dir := m.downloadDir
	return func() tea.Msg {
		var data []byte
		if att.ContentBase64 == "" {
			var err error
			data, err = gw.DownloadFile(context.Background(), att.ID)
			if err != nil {
				return attachmentSavedMsg{err: err}
			}
		}
		path, err := components.SaveAttachment(dir, att, data)
		return attachmentSavedMsg{path: path, err: err}
	}
}

func (m *Model) saveContextCmd(cc model.ConversationContext) tea.Cmd {
	st := m.store
	convID := m.conversationID
	return func() tea.Msg {
		return contextSavedMsg{err: st.UpdateConversationContext(context.Background(), convID, cc)}
	}
}
