// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/jeranaias/advisor-tui/internal/gateway"
	"github.com/jeranaias/advisor-tui/internal/model"
	"github.com/jeranaias/advisor-tui/internal/store"
	"github.com/jeranaias/advisor-tui/internal/ui/components"
	"github.com/jeranaias/advisor-tui/internal/ui/styles"
)

// ChatGateway is the slice of the HTTP client this view talks to.
type ChatGateway interface {
	SendMessage(ctx context.Context, send gateway.SendMessageRequest) (*gateway.SendMessageResponse, error)
	DownloadFile(ctx context.Context, fileID string) ([]byte, error)
}

// Deps carries the shared dependencies the chat view is built from.
type Deps struct {
	Store     *store.ConversationStore
	Session   store.SessionProvider
	Gateway   ChatGateway
	Theme     *styles.Theme
	Translate func(string) string
	Logger    *log.Logger

	DownloadDir        string
	TypewriterInterval time.Duration
}

// Model is the conversation view. It owns a local copy of the message
// list so in-flight sends and the typewriter reveal are never disturbed
// by background store updates; reconciliation folds the store back in
// when the view is quiet.
type Model struct {
	theme *styles.Theme
	tr    func(string) string
	log   *log.Logger

	store   *store.ConversationStore
	session store.SessionProvider
	gw      ChatGateway

	downloadDir string

	conversationID string
	initialMessage string
	hasSentInitial bool
	sendingInitial bool

	messages []model.Message

	// errorBubbles marks synthesized failure messages that live only in
	// the view and must never be persisted.
	errorBubbles map[string]bool

	isSending       bool
	typingMessageID string

	// justAdded suppresses reconciliation for a short window after a
	// reply lands, so the store catching up does not reshuffle the
	// transcript mid-read.
	justAdded string

	typewriter components.Typewriter
	markdown   *components.Markdown
	input      textinput.Model
	viewport   viewport.Model
	spin       spinner.Model

	ctxEditor *components.ContextForm

	status string
	width  int
	height int
}

// New builds a chat view. Open must be called before the first Update.
func New(deps Deps) Model {
	input := textinput.New()
	input.Placeholder = deps.Translate("chat.placeholder")
	input.Prompt = "> "
	input.PromptStyle = deps.Theme.InputPrompt
	input.CharLimit = 4000

	return Model{
		theme:        deps.Theme,
		tr:           deps.Translate,
		log:          deps.Logger,
		store:        deps.Store,
		session:      deps.Session,
		gw:           deps.Gateway,
		downloadDir:  deps.DownloadDir,
		errorBubbles: map[string]bool{},
		typewriter:   components.NewTypewriter(deps.TypewriterInterval),
		input:        input,
		viewport:     viewport.New(80, 20),
		spin:         components.NewThinkingSpinner(deps.Theme.Spinner),
	}
}

// Open mounts the view on a conversation. A non-empty initialMessage
// means the conversation was just created from the landing prompt: its
// user message is already in the store and must be dispatched to the
// advisor exactly once. The dispatch is skipped when the store already
// holds an assistant reply, which happens when a synced conversation is
// re-opened with the same navigation state. Otherwise the view adopts
// whatever the store holds, falling back to a background history fetch
// when it holds nothing.
func (m *Model) Open(conversationID, initialMessage string) tea.Cmd {
	if conversationID != m.conversationID {
		// The once-only guard protects against a re-mount of the same
		// conversation, not against opening a different one.
		m.hasSentInitial = false
	}
	m.conversationID = conversationID
	m.initialMessage = initialMessage
	m.sendingInitial = false
	m.messages = nil
	m.errorBubbles = map[string]bool{}
	m.isSending = false
	m.typingMessageID = ""
	m.justAdded = ""
	m.status = ""
	m.ctxEditor = nil
	m.input.Reset()
	m.input.Focus()

	conv, _ := m.store.Get(conversationID)

	if initialMessage != "" && !m.hasSentInitial && !conv.HasAssistantReply() {
		m.hasSentInitial = true
		m.sendingInitial = true
		if _, seeded := conv.FindUserMessage(initialMessage); !seeded {
			// The landing flow seeds the user message; a direct open
			// with an initial message seeds it here instead.
			m.store.AppendMessage(conversationID, model.NewUserMessage(initialMessage))
		}
		m.messages = m.store.Messages(conversationID)
		m.refreshViewport()
		return tea.Batch(m.sendCmd(initialMessage), m.spin.Tick, textinput.Blink)
	}

	stored := m.store.Messages(conversationID)
	if len(stored) > 0 {
		m.messages = stored
		m.refreshViewport()
		return textinput.Blink
	}

	m.refreshViewport()
	return tea.Batch(m.syncHistoryCmd(), textinput.Blink)
}

// ConversationID returns the id of the open conversation.
func (m Model) ConversationID() string {
	return m.conversationID
}

// SetSize resizes the view.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
	m.viewport.Width = width
	vh := height - 7
	if vh < 3 {
		vh = 3
	}
	m.viewport.Height = vh
	m.markdown = components.NewMarkdown(m.theme.BubbleWidth()-4, m.theme.IsDark)
	m.refreshViewport()
}

// tryReconcile folds the store's view of the conversation into the local
// transcript when nothing volatile is happening.
func (m *Model) tryReconcile() {
	if m.isSending || m.typingMessageID != "" || m.justAdded != "" || m.initialMessage != "" {
		return
	}
	m.messages = reconcile(m.messages, m.store.Messages(m.conversationID))
	m.refreshViewport()
}
