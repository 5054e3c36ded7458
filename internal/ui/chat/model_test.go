// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/advisor-tui/internal/gateway"
	"github.com/jeranaias/advisor-tui/internal/logging"
	"github.com/jeranaias/advisor-tui/internal/model"
	"github.com/jeranaias/advisor-tui/internal/store"
	"github.com/jeranaias/advisor-tui/internal/ui/styles"
)

// =============================================================================
// FAKES
// =============================================================================

type fakeChatGateway struct {
	sendFn   func(gateway.SendMessageRequest) (*gateway.SendMessageResponse, error)
	sent     []gateway.SendMessageRequest
	download map[string][]byte
}

func (f *fakeChatGateway) SendMessage(_ context.Context, send gateway.SendMessageRequest) (*gateway.SendMessageResponse, error) {
	f.sent = append(f.sent, send)
	return f.sendFn(send)
}

func (f *fakeChatGateway) DownloadFile(_ context.Context, fileID string) ([]byte, error) {
	data, ok := f.download[fileID]
	if !ok {
		return nil, gateway.ErrNotFound
	}
	return data, nil
}

type fakeConvGateway struct {
	historyFn func(conversationID string) (*gateway.HistoryResponse, error)
}

func (f *fakeConvGateway) Conversations(context.Context, string) ([]gateway.ConversationSummary, error) {
	return nil, nil
}

func (f *fakeConvGateway) History(_ context.Context, conversationID string) (*gateway.HistoryResponse, error) {
	if f.historyFn == nil {
		return &gateway.HistoryResponse{}, nil
	}
	return f.historyFn(conversationID)
}

func (f *fakeConvGateway) DeleteConversation(context.Context, string, string) error {
	return nil
}

func (f *fakeConvGateway) UpdateConversationTitle(context.Context, string, string, string) error {
	return nil
}

func (f *fakeConvGateway) UpdateConversationContext(context.Context, string, model.ConversationContext) error {
	return nil
}

func signedIn() model.Session {
	return model.Session{
		User:  &model.UserProfile{ID: "u1", Email: "a@b.c"},
		Token: "tok",
	}
}

func newTestModel(t *testing.T, gw *fakeChatGateway) (Model, *store.ConversationStore) {
	t.Helper()
	convs, err := store.NewConversationStore(&fakeConvGateway{}, signedIn, t.TempDir(), logging.Discard())
	require.NoError(t, err)

	m := New(Deps{
		Store:              convs,
		Session:            signedIn,
		Gateway:            gw,
		Theme:              styles.NewTheme("dark"),
		Translate:          func(key string) string { return key },
		Logger:             logging.Discard(),
		DownloadDir:        t.TempDir(),
		TypewriterInterval: time.Millisecond,
	})
	return m, convs
}

// runCmd executes a command tree synchronously and feeds every produced
// message back through Update. Self-rescheduling ticks (cursor blink,
// spinner) and the justAdded expiry are dropped so the recursion
// terminates; tests that care about the expiry inject clearJustAddedMsg
// themselves.
func runCmd(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			m = runCmd(t, m, c)
		}
		return m
	case cursor.BlinkMsg, spinner.TickMsg, clearJustAddedMsg:
		return m
	case nil:
		return m
	default:
		m, cmd = m.Update(msg)
		return runCmd(t, m, cmd)
	}
}

func reply(convID, id, text string) *gateway.SendMessageResponse {
	return &gateway.SendMessageResponse{
		Response:       text,
		MessageID:      id,
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
		ConversationID: convID,
	}
}

// =============================================================================
// INITIAL MESSAGE DISPATCH
// =============================================================================

func TestOpenWithInitialMessageSendsExactlyOnce(t *testing.T) {
	gw := &fakeChatGateway{sendFn: func(send gateway.SendMessageRequest) (*gateway.SendMessageResponse, error) {
		return reply(send.ConversationID, "r1", "hello!"), nil
	}}
	m, convs := newTestModel(t, gw)

	convs.AddConversation("c1", "How do I…", "How do I hire?", nil)
	cmd := m.Open("c1", "How do I hire?")
	m = runCmd(t, m, cmd)

	require.Len(t, gw.sent, 1, "initial message dispatched exactly once")
	assert.Equal(t, "How do I hire?", gw.sent[0].Message)
	assert.Equal(t, "u1", gw.sent[0].UserID)

	// Re-opening the same view must not re-dispatch.
	cmd = m.Open("c1", "How do I hire?")
	m = runCmd(t, m, cmd)
	assert.Len(t, gw.sent, 1, "re-mount must not re-send")

	_ = m
}

func TestOpenWithInitialMessageSendsContextFilters(t *testing.T) {
	gw := &fakeChatGateway{sendFn: func(send gateway.SendMessageRequest) (*gateway.SendMessageResponse, error) {
		return reply(send.ConversationID, "r1", "ok"), nil
	}}
	m, convs := newTestModel(t, gw)

	cc := &model.ConversationContext{UserRole: "owner", Urgency: "urgent"}
	convs.AddConversation("c1", "t", "first", cc)
	m = runCmd(t, m, m.Open("c1", "first"))

	require.Len(t, gw.sent, 1)
	require.NotNil(t, gw.sent[0].ContextFilters)
	assert.Equal(t, "owner", gw.sent[0].ContextFilters.UserRole)
}

func TestOpenWithInitialMessageSkipsSendWhenReplyPresent(t *testing.T) {
	gw := &fakeChatGateway{sendFn: func(send gateway.SendMessageRequest) (*gateway.SendMessageResponse, error) {
		return reply(send.ConversationID, "r9", "again?"), nil
	}}
	m, convs := newTestModel(t, gw)

	convs.AddConversation("c1", "t", "How do I hire?", nil)
	convs.AppendMessage("c1", model.NewAssistantMessage("r1", "like this", time.Now(), nil))

	// Re-opening an already-answered conversation with the same
	// navigation state must not dispatch again.
	m = runCmd(t, m, m.Open("c1", "How do I hire?"))

	assert.Empty(t, gw.sent)
	assert.Len(t, m.messages, 2, "store transcript adopted")
}

func TestOpenDoesNotReseedMatchingUserMessage(t *testing.T) {
	gw := &fakeChatGateway{sendFn: func(send gateway.SendMessageRequest) (*gateway.SendMessageResponse, error) {
		return reply(send.ConversationID, "r1", "ok"), nil
	}}
	m, convs := newTestModel(t, gw)

	convs.AddConversation("c1", "t", "first question", nil)
	m = runCmd(t, m, m.Open("c1", "first question"))

	require.Len(t, gw.sent, 1)
	seeded := 0
	for _, msg := range convs.Messages("c1") {
		if msg.Role == model.RoleUser && msg.Content == "first question" {
			seeded++
		}
	}
	assert.Equal(t, 1, seeded, "seeded user message must not be duplicated")
}

// =============================================================================
// SEND FLOW
// =============================================================================

func TestSubmitWritesStoreBeforeDispatch(t *testing.T) {
	var storeLenAtSend int
	m, convs := newTestModel(t, nil)
	gw := &fakeChatGateway{}
	gw.sendFn = func(send gateway.SendMessageRequest) (*gateway.SendMessageResponse, error) {
		storeLenAtSend = len(convs.Messages("c1"))
		return reply("c1", "r1", "answer"), nil
	}
	m.gw = gw

	convs.AddConversation("c1", "t", "seed", nil)
	m = runCmd(t, m, m.Open("c1", ""))

	m.input.SetValue("my question")
	var cmd tea.Cmd
	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = runCmd(t, m, cmd)

	assert.Equal(t, 2, storeLenAtSend, "user message persisted before the request went out")
	assert.False(t, m.isSending)

	msgs := convs.Messages("c1")
	require.Len(t, msgs, 3)
	assert.Equal(t, "answer", msgs[2].Content)
}

func TestSendFailureSynthesizesErrorBubbleWithoutPersisting(t *testing.T) {
	gw := &fakeChatGateway{sendFn: func(gateway.SendMessageRequest) (*gateway.SendMessageResponse, error) {
		return nil, errors.New("backend down")
	}}
	m, convs := newTestModel(t, gw)

	convs.AddConversation("c1", "t", "seed", nil)
	m = runCmd(t, m, m.Open("c1", ""))

	m.input.SetValue("q")
	var cmd tea.Cmd
	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = runCmd(t, m, cmd)

	// The view shows seed + question + error bubble.
	require.Len(t, m.messages, 3)
	last := m.messages[2]
	assert.Equal(t, model.RoleAssistant, last.Role)
	assert.Contains(t, last.Content, "backend down")
	assert.True(t, m.errorBubbles[last.ID])

	// The store holds only the real messages.
	assert.Len(t, convs.Messages("c1"), 2)
}

func TestReplyIsDeduplicatedByID(t *testing.T) {
	gw := &fakeChatGateway{sendFn: func(send gateway.SendMessageRequest) (*gateway.SendMessageResponse, error) {
		return reply("c1", "same-id", "dup"), nil
	}}
	m, convs := newTestModel(t, gw)

	convs.AddConversation("c1", "t", "seed", nil)
	convs.AppendMessage("c1", model.NewAssistantMessage("same-id", "dup", time.Now(), nil))
	m = runCmd(t, m, m.Open("c1", ""))

	m.input.SetValue("again")
	var cmd tea.Cmd
	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = runCmd(t, m, cmd)

	seen := map[string]int{}
	for _, msg := range m.messages {
		seen[msg.ID]++
	}
	assert.Equal(t, 1, seen["same-id"], "reply id must not appear twice")
}

func TestStaleReplyLandsInItsOwnConversation(t *testing.T) {
	gw := &fakeChatGateway{sendFn: func(send gateway.SendMessageRequest) (*gateway.SendMessageResponse, error) {
		return reply(send.ConversationID, "r-old", "late answer"), nil
	}}
	m, convs := newTestModel(t, gw)

	convs.AddConversation("c1", "t1", "seed1", nil)
	convs.AddConversation("c2", "t2", "seed2", nil)
	m = runCmd(t, m, m.Open("c1", ""))

	m.input.SetValue("slow question")
	var cmd tea.Cmd
	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	// Navigate away before the response arrives.
	openCmd := m.Open("c2", "")
	_ = openCmd
	m = runCmd(t, m, cmd)

	assert.Len(t, m.messages, 1, "open conversation untouched by the stale reply")
	c1 := convs.Messages("c1")
	require.Len(t, c1, 3)
	assert.Equal(t, "late answer", c1[2].Content)
}

// =============================================================================
// RECONCILIATION GATES
// =============================================================================

func TestReconcileSuppressedWhileJustAdded(t *testing.T) {
	gw := &fakeChatGateway{sendFn: func(gateway.SendMessageRequest) (*gateway.SendMessageResponse, error) {
		return reply("c1", "r1", "hi"), nil
	}}
	m, convs := newTestModel(t, gw)

	convs.AddConversation("c1", "t", "seed", nil)
	m = runCmd(t, m, m.Open("c1", ""))

	m.input.SetValue("q")
	var cmd tea.Cmd
	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = runCmd(t, m, cmd)
	require.Equal(t, "r1", m.justAdded)

	// A store update arriving inside the window must not reshuffle.
	convs.AppendMessage("c1", model.NewAssistantMessage("remote-x", "synced later", time.Now(), nil))
	before := len(m.messages)
	m, _ = m.Update(RefreshMsg{})
	assert.Len(t, m.messages, before, "reconcile gated while justAdded set")

	// After the window expires the store wins.
	m, _ = m.Update(clearJustAddedMsg{id: "r1"})
	assert.Empty(t, m.justAdded)
	ids := map[string]bool{}
	for _, msg := range m.messages {
		ids[msg.ID] = true
	}
	assert.True(t, ids["remote-x"], "reconcile ran once the window closed")
}

func TestReconcileSuppressedWhileSending(t *testing.T) {
	m, convs := newTestModel(t, &fakeChatGateway{})
	convs.AddConversation("c1", "t", "seed", nil)
	m = runCmd(t, m, m.Open("c1", ""))

	m.isSending = true
	convs.AppendMessage("c1", model.NewAssistantMessage("x", "new", time.Now(), nil))
	before := len(m.messages)
	m, _ = m.Update(RefreshMsg{})
	assert.Len(t, m.messages, before)

	m.isSending = false
	m, _ = m.Update(RefreshMsg{})
	assert.Len(t, m.messages, before+1)
}

// =============================================================================
// TYPEWRITER INTEGRATION
// =============================================================================

func TestEscapeStopsRevealAndShowsFullReply(t *testing.T) {
	gw := &fakeChatGateway{sendFn: func(gateway.SendMessageRequest) (*gateway.SendMessageResponse, error) {
		return reply("c1", "r1", "a long considered answer"), nil
	}}
	m, convs := newTestModel(t, gw)

	convs.AddConversation("c1", "t", "seed", nil)
	m = runCmd(t, m, m.Open("c1", ""))

	m.input.SetValue("q")
	var cmd tea.Cmd
	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	// Process the send result only; leave the reveal running.
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	require.True(t, ok)
	for _, c := range batch {
		if res, ok := c().(sendResultMsg); ok {
			m, _ = m.Update(res)
		}
	}
	require.Equal(t, "r1", m.typingMessageID)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Empty(t, m.typingMessageID)
	assert.Equal(t, "a long considered answer", m.typewriter.View())
}

func TestEscapeWhenIdleGoesBack(t *testing.T) {
	m, convs := newTestModel(t, &fakeChatGateway{})
	convs.AddConversation("c1", "t", "seed", nil)
	m = runCmd(t, m, m.Open("c1", ""))

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	_, isBack := cmd().(BackMsg)
	assert.True(t, isBack)
}
