// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/advisor-tui/internal/util"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Advisor"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is a single message in a conversation. IDs are locally generated
// for optimistic user messages and server-assigned for assistant replies and
// for user messages confirmed by server history.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`

	// Files holds downloadable attachments delivered with the message.
	// Empty for most messages; the history endpoint does not always
	// return attachment payloads, so a populated Files slice must never
	// be clobbered by a later fetch that omits them.
	Files []FileAttachment `json:"files,omitempty"`
}

// FileAttachment describes a downloadable file delivered with an assistant
// reply, either inline (base64) or via a remote retrieval path.
type FileAttachment struct {
	ID            string `json:"id"`
	Filename      string `json:"filename"`
	Mime          string `json:"mime"`
	Size          int64  `json:"size"`
	ContentBase64 string `json:"content_base64,omitempty"`
	DownloadURL   string `json:"download_url,omitempty"`
}

// NewMessage creates a message with a freshly generated id and the current
// timestamp.
func NewMessage(role Role, content string) Message {
	return Message{
		ID:        NewID(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) Message {
	return NewMessage(RoleUser, content)
}

// NewAssistantMessage creates a new assistant message with a known id, as
// returned by the gateway.
func NewAssistantMessage(id, content string, ts time.Time, files []FileAttachment) Message {
	return Message{
		ID:        id,
		Role:      RoleAssistant,
		Content:   content,
		Timestamp: ts,
		Files:     files,
	}
}

// NewID generates a unique id for locally created conversations and
// messages.
func NewID() string {
	return uuid.NewString()
}

// Preview returns a single-line truncated preview of the message content.
func (m Message) Preview(maxRunes int) string {
	return util.TruncateRunes(util.CollapseSpace(m.Content), maxRunes)
}

// HasFiles reports whether the message carries any attachments.
func (m Message) HasFiles() bool {
	return len(m.Files) > 0
}

// =============================================================================
// CONTENT HELPERS
// =============================================================================

// dataBlockRe matches fenced ```json blocks. These carry raw structured
// data for the backend and are not meant for human display.
var dataBlockRe = regexp.MustCompile("(?s)```json.*?```")

// StripDataBlocks removes fenced machine-data fragments from message
// content before it is rendered.
func StripDataBlocks(content string) string {
	return dataBlockRe.ReplaceAllString(content, "")
}

// =============================================================================
// MESSAGE LIST HELPERS
// =============================================================================

// MessageIDs returns the set of ids present in a message slice. Used by the
// de-duplication rule applied wherever an assistant reply might be inserted.
func MessageIDs(msgs []Message) map[string]struct{} {
	ids := make(map[string]struct{}, len(msgs))
	for _, m := range msgs {
		ids[m.ID] = struct{}{}
	}
	return ids
}

// SortMessages orders a message slice by ascending timestamp in place.
// Ties keep their relative order so an optimistic insert and its
// confirmation never swap.
func SortMessages(msgs []Message) {
	// Insertion sort keeps the common already-sorted case O(n) and is
	// stable without allocating.
	for i := 1; i < len(msgs); i++ {
		for j := i; j > 0 && msgs[j].Timestamp.Before(msgs[j-1].Timestamp); j-- {
			msgs[j], msgs[j-1] = msgs[j-1], msgs[j]
		}
	}
}
