// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gateway

import (
	"time"

	"github.com/jeranaias/advisor-tui/internal/model"
)

// =============================================================================
// AUTH TYPES
// =============================================================================

// RegisterRequest is the body for POST /api/auth/register.
type RegisterRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	BusinessType string `json:"business_type,omitempty"`

	FullName         string `json:"full_name,omitempty"`
	Nickname         string `json:"nickname,omitempty"`
	Phone            string `json:"phone,omitempty"`
	Country          string `json:"country,omitempty"`
	Gender           string `json:"gender,omitempty"`
	TelegramUsername string `json:"telegram_username,omitempty"`
}

// LoginRequest is the body for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by both register and login.
type AuthResponse struct {
	Message string            `json:"message"`
	User    model.UserProfile `json:"user"`
	Token   string            `json:"token"`
}

// CheckUserResponse is returned by GET /api/auth/check-user.
type CheckUserResponse struct {
	Exists bool `json:"exists"`
}

// CheckTokenResponse is returned by GET /api/auth/check-token.
type CheckTokenResponse struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

// =============================================================================
// CHAT TYPES
// =============================================================================

// CreateConversationRequest is the body for POST /api/chat/conversations.
type CreateConversationRequest struct {
	UserID  string                     `json:"user_id"`
	Title   string                     `json:"title,omitempty"`
	Context *model.ConversationContext `json:"context,omitempty"`
}

// CreateConversationResponse is the reply to a conversation create.
type CreateConversationResponse struct {
	ConversationID string `json:"conversation_id"`
	CreatedAt      string `json:"created_at"`
}

// SendMessageRequest is the body for POST /api/chat/message. ConversationID
// is empty for the first message of a fresh conversation; the server then
// assigns one and returns it.
type SendMessageRequest struct {
	Message        string                     `json:"message"`
	UserID         string                     `json:"user_id"`
	ConversationID string                     `json:"conversation_id,omitempty"`
	Language       string                     `json:"language,omitempty"`
	ContextFilters *model.ConversationContext `json:"context_filters,omitempty"`
}

// SendMessageResponse carries the assistant reply with any generated files.
type SendMessageResponse struct {
	Response       string                 `json:"response"`
	MessageID      string                 `json:"message_id"`
	Timestamp      string                 `json:"timestamp"`
	ConversationID string                 `json:"conversation_id"`
	Files          []model.FileAttachment `json:"files,omitempty"`
}

// AssistantMessage converts the reply into a model message, stripping
// machine-data blocks from the displayed content.
func (r SendMessageResponse) AssistantMessage() model.Message {
	return model.NewAssistantMessage(r.MessageID, model.StripDataBlocks(r.Response), parseTime(r.Timestamp), r.Files)
}

// ConversationSummary is one entry of the conversation list endpoint. The
// list carries metadata only; history is fetched per conversation.
type ConversationSummary struct {
	ID        string                     `json:"id"`
	UserID    string                     `json:"user_id"`
	Title     string                     `json:"title"`
	CreatedAt string                     `json:"created_at"`
	Context   *model.ConversationContext `json:"context,omitempty"`
}

// ToConversation maps a summary to a local conversation with no messages.
func (s ConversationSummary) ToConversation() model.Conversation {
	return model.Conversation{
		ID:        s.ID,
		Title:     s.Title,
		UpdatedAt: parseTime(s.CreatedAt),
		Messages:  []model.Message{},
		Context:   s.Context.Normalize(),
	}
}

// ConversationsResponse is returned by GET /api/chat/conversations/:userId.
type ConversationsResponse struct {
	UserID        string                `json:"user_id"`
	Conversations []ConversationSummary `json:"conversations"`
}

// HistoryMessage is one message of the history endpoint.
type HistoryMessage struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// MessageAttachments groups the files delivered for a single message id.
// The history endpoint returns attachments separately from the messages and
// not on every fetch.
type MessageAttachments struct {
	MessageID string                 `json:"message_id"`
	Files     []model.FileAttachment `json:"files"`
}

// HistoryResponse is returned by GET /api/chat/history/:conversationId.
type HistoryResponse struct {
	ConversationID string               `json:"conversation_id"`
	Messages       []HistoryMessage     `json:"messages"`
	Count          int                  `json:"count"`
	Attachments    []MessageAttachments `json:"attachments,omitempty"`
}

// ToMessages maps the wire history to model messages, joining attachments
// to their messages by id and sorting by ascending timestamp.
func (h HistoryResponse) ToMessages() []model.Message {
	filesByMsg := make(map[string][]model.FileAttachment, len(h.Attachments))
	for _, a := range h.Attachments {
		filesByMsg[a.MessageID] = a.Files
	}
	msgs := make([]model.Message, 0, len(h.Messages))
	for _, wm := range h.Messages {
		msgs = append(msgs, model.Message{
			ID:        wm.ID,
			Role:      model.Role(wm.Role),
			Content:   wm.Content,
			Timestamp: parseTime(wm.Timestamp),
			Files:     filesByMsg[wm.ID],
		})
	}
	model.SortMessages(msgs)
	return msgs
}

// StatusResponse is the generic {status, conversation_id} acknowledgement
// returned by delete, title and context updates.
type StatusResponse struct {
	Status         string `json:"status"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// =============================================================================
// WIRE HELPERS
// =============================================================================

// timeFormats lists the timestamp layouts the backend has been observed to
// emit, most common first.
var timeFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// parseTime decodes a backend timestamp, falling back to the current time
// when the value is blank or unrecognized so ordering stays sane.
func parseTime(s string) time.Time {
	for _, layout := range timeFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Now()
}
