// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package landing

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/advisor-tui/internal/gateway"
	"github.com/jeranaias/advisor-tui/internal/logging"
	"github.com/jeranaias/advisor-tui/internal/model"
	"github.com/jeranaias/advisor-tui/internal/store"
	"github.com/jeranaias/advisor-tui/internal/ui/styles"
)

type fakeCreator struct {
	calls []gateway.CreateConversationRequest
	id    string
	err   error
}

func (f *fakeCreator) CreateConversation(_ context.Context, create gateway.CreateConversationRequest) (*gateway.CreateConversationResponse, error) {
	f.calls = append(f.calls, create)
	if f.err != nil {
		return nil, f.err
	}
	return &gateway.CreateConversationResponse{ConversationID: f.id}, nil
}

type fakeConvGateway struct{}

func (fakeConvGateway) Conversations(context.Context, string) ([]gateway.ConversationSummary, error) {
	return nil, nil
}
func (fakeConvGateway) History(context.Context, string) (*gateway.HistoryResponse, error) {
	return &gateway.HistoryResponse{}, nil
}
func (fakeConvGateway) DeleteConversation(context.Context, string, string) error { return nil }
func (fakeConvGateway) UpdateConversationTitle(context.Context, string, string, string) error {
	return nil
}
func (fakeConvGateway) UpdateConversationContext(context.Context, string, model.ConversationContext) error {
	return nil
}

func newTestModel(t *testing.T, authed bool, creator *fakeCreator) (Model, *store.ConversationStore) {
	t.Helper()
	convs, err := store.NewConversationStore(fakeConvGateway{}, func() model.Session {
		if !authed {
			return model.Session{}
		}
		return model.Session{User: &model.UserProfile{ID: "u1"}, Token: "tok"}
	}, t.TempDir(), logging.Discard())
	require.NoError(t, err)

	session := func() model.Session {
		if !authed {
			return model.Session{}
		}
		return model.Session{User: &model.UserProfile{ID: "u1"}, Token: "tok"}
	}
	m := New(convs, session, creator, styles.NewTheme("dark"), func(key string) string { return key }, logging.Discard())
	return m, convs
}

func TestSubmitSignedOutRedirectsWithoutGatewayCall(t *testing.T) {
	creator := &fakeCreator{id: "srv-1"}
	m, convs := newTestModel(t, false, creator)

	m.input.SetValue("how do I register a company?")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	_, isLogin := cmd().(GoLoginMsg)
	assert.True(t, isLogin, "signed-out submit must go to login")
	assert.Empty(t, creator.calls, "no gateway call when signed out")
	assert.Zero(t, convs.Len(), "no conversation created when signed out")
}

func TestSubmitCreatesServerSideConversation(t *testing.T) {
	creator := &fakeCreator{id: "srv-1"}
	m, convs := newTestModel(t, true, creator)

	m.input.SetValue("how do I hire my first employee?")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Nil(t, cmd, "the context form opens before anything is sent")

	// Confirm the blank form; no context accompanies the create.
	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	created, ok := cmd().(createdMsg)
	require.True(t, ok)
	m, cmd = m.Update(created)
	require.NotNil(t, cmd)

	open, ok := cmd().(OpenChatMsg)
	require.True(t, ok)
	assert.Equal(t, "srv-1", open.ConversationID)
	assert.Equal(t, "how do I hire my first employee?", open.InitialMessage)

	require.Len(t, creator.calls, 1)
	assert.Equal(t, "u1", creator.calls[0].UserID)
	assert.Nil(t, creator.calls[0].Context, "blank form normalizes to no context")

	msgs := convs.Messages("srv-1")
	require.Len(t, msgs, 1, "conversation seeded with the user message")
	assert.Equal(t, model.RoleUser, msgs[0].Role)
}

func TestSubmitPassesContextThroughCreate(t *testing.T) {
	creator := &fakeCreator{id: "srv-2"}
	m, convs := newTestModel(t, true, creator)

	m.input.SetValue("my ads are not converting")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Nil(t, cmd)

	// Cycle the first form row to its first option, then send.
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	created, ok := cmd().(createdMsg)
	require.True(t, ok)

	require.Len(t, creator.calls, 1)
	require.NotNil(t, creator.calls[0].Context, "filled form rides on the create request")
	assert.Equal(t, model.UserRoles[0], creator.calls[0].Context.UserRole)

	m, cmd = m.Update(created)
	open, ok := cmd().(OpenChatMsg)
	require.True(t, ok)

	conv, found := convs.Get(open.ConversationID)
	require.True(t, found)
	require.NotNil(t, conv.Context, "context stored with the new conversation")
	assert.Equal(t, model.UserRoles[0], conv.Context.UserRole)
}

func TestSubmitFallsBackToLocalIDOnCreateFailure(t *testing.T) {
	creator := &fakeCreator{err: errors.New("backend down")}
	m, convs := newTestModel(t, true, creator)

	m.input.SetValue("question")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Nil(t, cmd)

	// Skip the context form; the question still goes out.
	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	created, ok := cmd().(createdMsg)
	require.True(t, ok)
	require.Error(t, created.err)
	assert.Nil(t, created.cc)

	m, cmd = m.Update(created)
	open, ok := cmd().(OpenChatMsg)
	require.True(t, ok)
	assert.NotEmpty(t, open.ConversationID, "local id assigned on failure")

	conv, found := convs.Get(open.ConversationID)
	require.True(t, found)
	assert.Equal(t, "question", conv.LastMessage)
}
