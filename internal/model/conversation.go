// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/jeranaias/advisor-tui/internal/util"
)

// TitleMaxRunes is the maximum number of characters of the first message
// used for a derived conversation title before the ellipsis is appended.
const TitleMaxRunes = 30

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds a chat conversation with its ordered history and
// metadata. The id is locally generated when the conversation is created
// without a business context and server-assigned otherwise.
type Conversation struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	LastMessage string    `json:"last_message"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Messages are ordered by ascending timestamp with unique ids.
	Messages []Message `json:"messages"`

	// Context is the optional business-context tag set. nil means "no
	// context"; an all-blank context is never stored.
	Context *ConversationContext `json:"context,omitempty"`
}

// NewConversation creates a conversation seeded with a single user message.
func NewConversation(id, title, firstMessage string, ctx *ConversationContext) Conversation {
	seed := NewUserMessage(firstMessage)
	return Conversation{
		ID:          id,
		Title:       title,
		LastMessage: firstMessage,
		UpdatedAt:   time.Now(),
		Messages:    []Message{seed},
		Context:     ctx.Normalize(),
	}
}

// DeriveTitle builds a conversation title from its first message: the
// message verbatim when it fits, otherwise the first TitleMaxRunes
// characters plus an ellipsis.
func DeriveTitle(firstMessage string) string {
	runes := []rune(firstMessage)
	if len(runes) <= TitleMaxRunes {
		return firstMessage
	}
	return string(runes[:TitleMaxRunes]) + "…"
}

// DisplayTitle returns the stored title or a fallback for untitled
// conversations.
func (c Conversation) DisplayTitle() string {
	if c.Title != "" {
		return c.Title
	}
	return "New conversation"
}

// Preview returns a single-line truncated preview for the list view.
func (c Conversation) Preview(maxRunes int) string {
	return util.TruncateRunes(util.CollapseSpace(c.LastMessage), maxRunes)
}

// LastAssistantMessage returns the most recent assistant message, or false
// when the conversation has none.
func (c Conversation) LastAssistantMessage() (Message, bool) {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Role == RoleAssistant {
			return c.Messages[i], true
		}
	}
	return Message{}, false
}

// HasAssistantReply reports whether any assistant message is present. The
// chat view uses this to decide whether a landing-page initial message
// still needs to be dispatched.
func (c Conversation) HasAssistantReply() bool {
	_, ok := c.LastAssistantMessage()
	return ok
}

// FindUserMessage returns the first user message with exactly the given
// content, if any. Used to avoid re-seeding a duplicate optimistic message
// after a reload.
func (c Conversation) FindUserMessage(content string) (Message, bool) {
	for _, m := range c.Messages {
		if m.Role == RoleUser && m.Content == content {
			return m, true
		}
	}
	return Message{}, false
}

// Clone returns a deep copy. Store snapshots hand out clones so views can
// never observe a half-updated conversation.
func (c Conversation) Clone() Conversation {
	clone := c
	clone.Messages = make([]Message, len(c.Messages))
	for i, m := range c.Messages {
		clone.Messages[i] = m
		if len(m.Files) > 0 {
			clone.Messages[i].Files = append([]FileAttachment(nil), m.Files...)
		}
	}
	if c.Context != nil {
		ctx := *c.Context
		clone.Context = &ctx
	}
	return clone
}

// =============================================================================
// CONVERSATION LIST HELPERS
// =============================================================================

// SortConversations orders a conversation slice by UpdatedAt descending,
// most recent first. Every mutating store operation re-sorts.
func SortConversations(convs []Conversation) {
	for i := 1; i < len(convs); i++ {
		for j := i; j > 0 && convs[j].UpdatedAt.After(convs[j-1].UpdatedAt); j-- {
			convs[j], convs[j-1] = convs[j-1], convs[j]
		}
	}
}
