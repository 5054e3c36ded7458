// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package convlist implements the conversation list: open, create,
// rename, and delete, with the destructive action behind a confirmation.
package convlist

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/jeranaias/advisor-tui/internal/model"
	"github.com/jeranaias/advisor-tui/internal/store"
	"github.com/jeranaias/advisor-tui/internal/ui/styles"
)

const previewRunes = 60

// OpenMsg asks the app to open a conversation with its stored history.
type OpenMsg struct {
	ConversationID string
}

// NewMsg asks the app to go to the landing prompt for a new conversation.
type NewMsg struct{}

// BackMsg asks the app to return to the landing screen.
type BackMsg struct{}

// RefreshMsg tells the list the shared store changed.
type RefreshMsg struct{}

type deletedMsg struct {
	id  string
	err error
}

type renamedMsg struct {
	err error
}

type mode int

const (
	modeBrowse mode = iota
	modeConfirmDelete
	modeRename
)

// Model is the conversation list screen.
type Model struct {
	theme *styles.Theme
	tr    func(string) string
	log   *log.Logger

	store *store.ConversationStore

	convs  []model.Conversation
	cursor int
	mode   mode
	rename textinput.Model
	status string
	width  int
	height int
}

// New builds the list screen.
func New(convs *store.ConversationStore, theme *styles.Theme, tr func(string) string, logger *log.Logger) Model {
	rename := textinput.New()
	rename.Prompt = "> "
	rename.PromptStyle = theme.InputPrompt
	rename.CharLimit = 120

	return Model{
		theme:  theme,
		tr:     tr,
		log:    logger,
		store:  convs,
		rename: rename,
	}
}

// Focus reloads the list from the store.
func (m *Model) Focus() tea.Cmd {
	m.reload()
	m.mode = modeBrowse
	m.status = ""
	return nil
}

// SetSize resizes the screen.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.rename.Width = width / 2
}

func (m *Model) reload() {
	m.convs = m.store.Conversations()
	if m.cursor >= len(m.convs) {
		m.cursor = len(m.convs) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) selected() (model.Conversation, bool) {
	if m.cursor < 0 || m.cursor >= len(m.convs) {
		return model.Conversation{}, false
	}
	return m.convs[m.cursor], true
}

// Update handles input and async results.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RefreshMsg:
		m.reload()
		return m, nil

	case deletedMsg:
		m.reload()
		if msg.err != nil {
			// The entry is already gone locally; surface the remote
			// failure without resurrecting it.
			m.status = m.theme.StatusErr.Render(msg.err.Error())
			m.log.Warn("remote delete failed", "conversation", msg.id, "error", msg.err)
		} else {
			m.status = m.theme.StatusOK.Render(m.tr("convlist.deleted"))
		}
		return m, nil

	case renamedMsg:
		m.reload()
		if msg.err != nil {
			m.status = m.theme.StatusErr.Render(msg.err.Error())
		}
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeConfirmDelete:
			return m.handleConfirmKey(msg)
		case modeRename:
			return m.handleRenameKey(msg)
		default:
			return m.handleBrowseKey(msg)
		}
	}
	return m, nil
}

func (m Model) handleBrowseKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.convs)-1 {
			m.cursor++
		}
	case "enter":
		if conv, ok := m.selected(); ok {
			id := conv.ID
			return m, func() tea.Msg { return OpenMsg{ConversationID: id} }
		}
	case "n":
		return m, func() tea.Msg { return NewMsg{} }
	case "r":
		if conv, ok := m.selected(); ok {
			m.mode = modeRename
			m.rename.SetValue(conv.Title)
			m.rename.Focus()
		}
	case "d":
		if _, ok := m.selected(); ok {
			m.mode = modeConfirmDelete
		}
	case "esc":
		return m, func() tea.Msg { return BackMsg{} }
	}
	return m, nil
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.mode = modeBrowse
		conv, ok := m.selected()
		if !ok {
			return m, nil
		}
		st := m.store
		id := conv.ID
		return m, func() tea.Msg {
			return deletedMsg{id: id, err: st.DeleteConversation(context.Background(), id)}
		}
	case "n", "N", "esc":
		m.mode = modeBrowse
	}
	return m, nil
}

func (m Model) handleRenameKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.mode = modeBrowse
		conv, ok := m.selected()
		title := strings.TrimSpace(m.rename.Value())
		if !ok || title == "" || title == conv.Title {
			return m, nil
		}
		st := m.store
		id := conv.ID
		return m, func() tea.Msg {
			return renamedMsg{err: st.UpdateConversationTitle(context.Background(), id, title)}
		}
	case "esc":
		m.mode = modeBrowse
		return m, nil
	}
	var cmd tea.Cmd
	m.rename, cmd = m.rename.Update(msg)
	return m, cmd
}

// View renders the list.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.theme.Header.Width(m.width).Render(m.theme.Title.Render(m.tr("convlist.title"))))
	b.WriteString("\n\n")

	if len(m.convs) == 0 {
		b.WriteString(m.theme.Subtitle.Render(m.tr("convlist.empty")))
		b.WriteString("\n")
	}

	for i, conv := range m.convs {
		title := conv.DisplayTitle()
		if n := conv.Context.FieldCount(); n > 0 {
			title += " ◆"
		}
		line := title
		if i == m.cursor {
			line = m.theme.ListItemSelected.Render("› " + line)
		} else {
			line = m.theme.ListItem.Render("  " + line)
		}
		b.WriteString(line)
		b.WriteString("\n")
		b.WriteString("    " + m.theme.ListPreview.Render(conv.Preview(previewRunes)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch m.mode {
	case modeConfirmDelete:
		if conv, ok := m.selected(); ok {
			b.WriteString(m.theme.StatusErr.Render(fmt.Sprintf("%s %q (y/n)", m.tr("convlist.delete"), conv.DisplayTitle())))
		}
	case modeRename:
		b.WriteString(m.theme.Label.Render(m.tr("convlist.rename")) + " " + m.rename.View())
	default:
		if m.status != "" {
			b.WriteString(m.status)
		} else {
			b.WriteString(m.theme.Hint.Render(m.tr("convlist.hint")))
		}
	}

	return m.theme.App.Render(b.String())
}
