// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package landing implements the first screen: a hero prompt that turns
// the typed question into a fresh conversation, with an optional
// business-context form shown before the conversation is created.
package landing

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/jeranaias/advisor-tui/internal/gateway"
	"github.com/jeranaias/advisor-tui/internal/model"
	"github.com/jeranaias/advisor-tui/internal/store"
	"github.com/jeranaias/advisor-tui/internal/ui/components"
	"github.com/jeranaias/advisor-tui/internal/ui/styles"
)

// OpenChatMsg asks the app to open a conversation. InitialMessage is set
// when the conversation was just created here and still needs its first
// message dispatched to the advisor.
type OpenChatMsg struct {
	ConversationID string
	InitialMessage string
}

// GoLoginMsg asks the app to show the sign-in screen.
type GoLoginMsg struct{}

// GoListMsg asks the app to show the conversation list.
type GoListMsg struct{}

// GoSettingsMsg asks the app to show the settings screen.
type GoSettingsMsg struct{}

type createdMsg struct {
	id   string
	text string
	cc   *model.ConversationContext
	err  error
}

// ConversationCreator is the slice of the gateway used to register a
// conversation server-side before the first message is sent.
type ConversationCreator interface {
	CreateConversation(ctx context.Context, create gateway.CreateConversationRequest) (*gateway.CreateConversationResponse, error)
}

// Model is the landing screen.
type Model struct {
	theme *styles.Theme
	tr    func(string) string
	log   *log.Logger

	store   *store.ConversationStore
	session store.SessionProvider
	creator ConversationCreator

	input textinput.Model

	// ctxForm is the pre-create business-context form; pending holds the
	// typed question while the form is open.
	ctxForm *components.ContextForm
	pending string

	busy   bool
	notice string
	width  int
	height int
}

// New builds the landing screen.
func New(convs *store.ConversationStore, session store.SessionProvider, creator ConversationCreator, theme *styles.Theme, tr func(string) string, logger *log.Logger) Model {
	input := textinput.New()
	input.Placeholder = tr("landing.placeholder")
	input.Prompt = "> "
	input.PromptStyle = theme.InputPrompt
	input.CharLimit = 4000
	input.Focus()

	return Model{
		theme:   theme,
		tr:      tr,
		log:     logger,
		store:   convs,
		session: session,
		creator: creator,
		input:   input,
	}
}

// Focus prepares the screen for display.
func (m *Model) Focus() tea.Cmd {
	m.notice = ""
	m.busy = false
	m.ctxForm = nil
	m.pending = ""
	m.input.Reset()
	m.input.Focus()
	return textinput.Blink
}

// SetSize resizes the screen.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width / 2
}

// createCmd registers the conversation with the backend so its id is
// server-assigned from the start. Failures fall back to a local id; the
// conversation is usable either way. Request deadlines come from the
// gateway client configuration.
func (m *Model) createCmd(text string, cc *model.ConversationContext) tea.Cmd {
	creator := m.creator
	userID := m.session().UserID()
	return func() tea.Msg {
		resp, err := creator.CreateConversation(context.Background(), gateway.CreateConversationRequest{
			UserID:  userID,
			Title:   model.DeriveTitle(text),
			Context: cc,
		})
		if err != nil {
			return createdMsg{text: text, cc: cc, err: err}
		}
		return createdMsg{id: resp.ConversationID, text: text, cc: cc}
	}
}

// Update handles input.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case createdMsg:
		if !m.busy {
			return m, nil
		}
		m.busy = false
		id := msg.id
		if msg.err != nil || id == "" {
			id = model.NewID()
			m.log.Warn("server-side conversation create failed, using local id", "error", msg.err)
		}
		// Seed the conversation before the chat view dispatches the
		// first message; the seeded user message survives even if the
		// send fails.
		m.store.AddConversation(id, model.DeriveTitle(msg.text), msg.text, msg.cc)
		m.input.Reset()
		return m, func() tea.Msg {
			return OpenChatMsg{ConversationID: id, InitialMessage: msg.text}
		}

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		if m.ctxForm != nil {
			return m.handleContextKey(msg)
		}
		switch msg.String() {
		case "enter":
			text := strings.TrimSpace(m.input.Value())
			if text == "" {
				return m, nil
			}
			if !m.session().IsAuthenticated() {
				m.notice = m.tr("landing.signin")
				return m, func() tea.Msg { return GoLoginMsg{} }
			}
			// The context form precedes creation; its result rides along
			// on the create request.
			m.pending = text
			m.ctxForm = components.NewContextForm(model.ConversationContext{})
			return m, nil

		case "tab":
			return m, func() tea.Msg { return GoListMsg{} }

		case "ctrl+s":
			return m, func() tea.Msg { return GoSettingsMsg{} }
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleContextKey drives the pre-create context form. Enter sends the
// question with the filled context, esc sends it without one.
func (m Model) handleContextKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	done, save := m.ctxForm.Update(msg)
	if !done {
		return m, nil
	}
	var cc *model.ConversationContext
	if save {
		v := m.ctxForm.Value()
		cc = v.Normalize()
	}
	m.ctxForm = nil
	m.busy = true
	return m, m.createCmd(m.pending, cc)
}

// View renders the hero screen.
func (m Model) View() string {
	if m.ctxForm != nil {
		return m.viewContextForm()
	}

	var b strings.Builder
	b.WriteString(m.theme.Title.Render(m.tr("landing.title")))
	b.WriteString("\n")
	b.WriteString(m.theme.Subtitle.Render(m.tr("landing.subtitle")))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	switch {
	case m.busy:
		b.WriteString(m.theme.Hint.Render(m.tr("common.loading")))
		b.WriteString("\n")
	case m.notice != "":
		b.WriteString(m.theme.StatusErr.Render(m.notice))
		b.WriteString("\n")
	}
	b.WriteString(m.theme.Hint.Render(m.tr("landing.hint")))

	content := b.String()
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	return content
}

func (m Model) viewContextForm() string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render(m.tr("context.title")))
	b.WriteString("\n\n")
	b.WriteString(m.ctxForm.View(m.theme, m.tr))
	b.WriteString("\n\n")
	b.WriteString(m.theme.Hint.Render("←/→ • enter " + m.tr("context.send") + " • esc " + m.tr("context.skip") + " • ctrl+l " + m.tr("context.clear")))

	box := m.theme.ModalBox.Render(b.String())
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}
