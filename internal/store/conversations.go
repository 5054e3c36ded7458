// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/jeranaias/advisor-tui/internal/gateway"
	"github.com/jeranaias/advisor-tui/internal/model"
)

// historyFetchLimit bounds concurrent history fetches during a full sync.
const historyFetchLimit = 4

// ConversationGateway is the slice of the backend API the conversation
// store needs.
type ConversationGateway interface {
	Conversations(ctx context.Context, userID string) ([]gateway.ConversationSummary, error)
	History(ctx context.Context, conversationID string) (*gateway.HistoryResponse, error)
	DeleteConversation(ctx context.Context, conversationID, userID string) error
	UpdateConversationTitle(ctx context.Context, conversationID, userID, title string) error
	UpdateConversationContext(ctx context.Context, conversationID string, cc model.ConversationContext) error
}

// SessionProvider reports the current session; the store consults it to
// gate remote calls.
type SessionProvider func() model.Session

// ConversationStore holds the conversation list. All mutations keep the
// list sorted by UpdatedAt descending and persist a snapshot.
type ConversationStore struct {
	mu    sync.Mutex
	convs []model.Conversation

	gw      ConversationGateway
	session SessionProvider
	snap    *Snapshot
	logger  *log.Logger
}

// NewConversationStore creates the store and rehydrates the snapshot.
func NewConversationStore(gw ConversationGateway, session SessionProvider, stateDir string, logger *log.Logger) (*ConversationStore, error) {
	snap, err := NewSnapshot(filepath.Join(stateDir, "conversations.json"))
	if err != nil {
		return nil, err
	}
	s := &ConversationStore{gw: gw, session: session, snap: snap, logger: logger}
	if _, err := snap.Load(&s.convs); err != nil {
		logger.Warn("dropping unreadable conversations snapshot", "err", err)
		s.convs = nil
	}
	model.SortConversations(s.convs)
	return s, nil
}

// =============================================================================
// READ OPERATIONS
// =============================================================================

// Conversations returns a deep copy of the list, most recent first.
func (s *ConversationStore) Conversations() []model.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Conversation, len(s.convs))
	for i, c := range s.convs {
		out[i] = c.Clone()
	}
	return out
}

// Get returns a deep copy of one conversation.
func (s *ConversationStore) Get(id string) (model.Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.convs[i].Clone(), true
	}
	return model.Conversation{}, false
}

// Messages returns a deep copy of one conversation's message list, empty
// when the conversation is unknown.
func (s *ConversationStore) Messages(id string) []model.Message {
	conv, ok := s.Get(id)
	if !ok {
		return nil
	}
	return conv.Messages
}

// Len returns the number of known conversations.
func (s *ConversationStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.convs)
}

// indexLocked returns the position of a conversation id, or -1.
func (s *ConversationStore) indexLocked(id string) int {
	for i := range s.convs {
		if s.convs[i].ID == id {
			return i
		}
	}
	return -1
}

// =============================================================================
// LOCAL MUTATIONS
// =============================================================================

// AddConversation inserts a conversation seeded with a user message, or,
// when the id already exists, refreshes its title and last message without
// touching the history. Either way the list stays sorted.
func (s *ConversationStore) AddConversation(id, title, lastMessage string, cc *model.ConversationContext) {
	s.mu.Lock()
	if i := s.indexLocked(id); i >= 0 {
		s.convs[i].Title = title
		s.convs[i].LastMessage = lastMessage
		s.convs[i].UpdatedAt = nowFunc()
		if norm := cc.Normalize(); norm != nil {
			s.convs[i].Context = norm
		}
	} else {
		s.convs = append(s.convs, model.NewConversation(id, title, lastMessage, cc))
	}
	model.SortConversations(s.convs)
	s.mu.Unlock()
	s.persist()
}

// UpdateConversation refreshes a conversation's last message, creating the
// conversation with a derived title when it is unknown.
func (s *ConversationStore) UpdateConversation(id, lastMessage string) {
	s.mu.Lock()
	if i := s.indexLocked(id); i >= 0 {
		s.convs[i].LastMessage = lastMessage
		s.convs[i].UpdatedAt = nowFunc()
	} else {
		s.convs = append(s.convs, model.NewConversation(id, model.DeriveTitle(lastMessage), lastMessage, nil))
	}
	model.SortConversations(s.convs)
	s.mu.Unlock()
	s.persist()
}

// AddMessage appends a message with a freshly generated id and returns it.
// Unknown conversation ids are a guarded no-op.
func (s *ConversationStore) AddMessage(conversationID string, role model.Role, content string) (model.Message, bool) {
	msg := model.NewMessage(role, content)
	if !s.AppendMessage(conversationID, msg) {
		return model.Message{}, false
	}
	return msg, true
}

// AppendMessage appends a fully formed message, deduplicating by id. It
// reports whether the message was inserted. Used for assistant replies
// whose ids the server assigns.
func (s *ConversationStore) AppendMessage(conversationID string, msg model.Message) bool {
	s.mu.Lock()
	i := s.indexLocked(conversationID)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	if _, dup := model.MessageIDs(s.convs[i].Messages)[msg.ID]; dup {
		s.mu.Unlock()
		return false
	}
	s.convs[i].Messages = append(s.convs[i].Messages, msg)
	model.SortMessages(s.convs[i].Messages)
	s.convs[i].LastMessage = msg.Content
	s.convs[i].UpdatedAt = nowFunc()
	model.SortConversations(s.convs)
	s.mu.Unlock()
	s.persist()
	return true
}

// =============================================================================
// REMOTE-COUPLED MUTATIONS
// =============================================================================

// DeleteConversation removes a conversation locally and, when
// authenticated, also remotely. Local removal always happens: a ghost
// entry in the list is worse than a rare leaked remote record. A remote
// failure is still returned so the caller can surface it.
func (s *ConversationStore) DeleteConversation(ctx context.Context, id string) error {
	s.mu.Lock()
	if i := s.indexLocked(id); i >= 0 {
		s.convs = append(s.convs[:i], s.convs[i+1:]...)
	}
	s.mu.Unlock()
	s.persist()

	sess := s.session()
	if !sess.IsAuthenticated() {
		return nil
	}
	if err := s.gw.DeleteConversation(ctx, id, sess.UserID()); err != nil {
		s.logger.Warn("remote delete failed, local copy already removed", "conversation", id, "err", err)
		return err
	}
	return nil
}

// UpdateConversationTitle renames a conversation locally and, when
// authenticated, remotely. Unlike delete, a remote failure propagates
// without special handling.
func (s *ConversationStore) UpdateConversationTitle(ctx context.Context, id, title string) error {
	s.mu.Lock()
	if i := s.indexLocked(id); i >= 0 {
		s.convs[i].Title = title
	}
	s.mu.Unlock()
	s.persist()

	sess := s.session()
	if !sess.IsAuthenticated() {
		return nil
	}
	return s.gw.UpdateConversationTitle(ctx, id, sess.UserID(), title)
}

// UpdateConversationContext replaces a conversation's business context
// locally and, when authenticated, remotely.
func (s *ConversationStore) UpdateConversationContext(ctx context.Context, id string, cc model.ConversationContext) error {
	s.mu.Lock()
	if i := s.indexLocked(id); i >= 0 {
		s.convs[i].Context = cc.Normalize()
	}
	s.mu.Unlock()
	s.persist()

	if !s.session().IsAuthenticated() {
		return nil
	}
	return s.gw.UpdateConversationContext(ctx, id, cc)
}

// =============================================================================
// SYNC
// =============================================================================

// SyncConversations replaces the list with the server's view, hydrating
// each conversation's history. A single history fetch failing leaves that
// conversation metadata-only instead of failing the sync. No-op while
// signed out.
func (s *ConversationStore) SyncConversations(ctx context.Context) error {
	sess := s.session()
	if !sess.IsAuthenticated() {
		return nil
	}

	summaries, err := s.gw.Conversations(ctx, sess.UserID())
	if err != nil {
		return err
	}

	hydrated := make([]model.Conversation, len(summaries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(historyFetchLimit)
	for i, sum := range summaries {
		i, sum := i, sum
		g.Go(func() error {
			conv := sum.ToConversation()
			hist, err := s.gw.History(gctx, sum.ID)
			if err != nil {
				s.logger.Warn("history fetch failed, keeping metadata only", "conversation", sum.ID, "err", err)
			} else {
				conv.Messages = hist.ToMessages()
				if last := len(conv.Messages) - 1; last >= 0 {
					conv.LastMessage = conv.Messages[last].Content
					conv.UpdatedAt = conv.Messages[last].Timestamp
				}
			}
			hydrated[i] = conv
			return nil
		})
	}
	// Workers never return errors; Wait only propagates context
	// cancellation.
	if err := g.Wait(); err != nil {
		return err
	}

	model.SortConversations(hydrated)
	s.mu.Lock()
	s.convs = hydrated
	s.mu.Unlock()
	s.persist()
	return nil
}

// SyncConversationHistory refreshes one conversation from the server. An
// unknown conversation is inserted; a known one gets its fetched messages
// merged in, keeping locally-held attachments when the fetched copy of a
// message arrives without them, and keeping local-only messages such as a
// just-sent optimistic insert.
func (s *ConversationStore) SyncConversationHistory(ctx context.Context, id string) error {
	hist, err := s.gw.History(ctx, id)
	if err != nil {
		return err
	}
	fetched := hist.ToMessages()

	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		conv := model.Conversation{ID: id, Messages: fetched, UpdatedAt: nowFunc()}
		if last := len(fetched) - 1; last >= 0 {
			conv.Title = model.DeriveTitle(fetched[0].Content)
			conv.LastMessage = fetched[last].Content
		}
		s.convs = append(s.convs, conv)
	} else {
		s.convs[i].Messages = mergeMessages(s.convs[i].Messages, fetched)
		if last := len(s.convs[i].Messages) - 1; last >= 0 {
			s.convs[i].LastMessage = s.convs[i].Messages[last].Content
		}
	}
	model.SortConversations(s.convs)
	s.mu.Unlock()
	s.persist()
	return nil
}

// mergeMessages unions local and fetched messages by id. Fetched content
// wins, except that non-empty local attachments survive a fetched copy
// that arrived without them; the history endpoint does not return
// attachment payloads on every fetch. Local-only messages are retained.
func mergeMessages(local, fetched []model.Message) []model.Message {
	localByID := make(map[string]model.Message, len(local))
	for _, m := range local {
		localByID[m.ID] = m
	}

	merged := make([]model.Message, 0, len(fetched)+len(local))
	seen := make(map[string]struct{}, len(fetched))
	for _, fm := range fetched {
		if lm, ok := localByID[fm.ID]; ok && len(lm.Files) > 0 && len(fm.Files) == 0 {
			fm.Files = lm.Files
		}
		merged = append(merged, fm)
		seen[fm.ID] = struct{}{}
	}
	for _, lm := range local {
		if _, ok := seen[lm.ID]; !ok {
			merged = append(merged, lm)
		}
	}
	model.SortMessages(merged)
	return merged
}

// =============================================================================
// PERSISTENCE
// =============================================================================

func (s *ConversationStore) persist() {
	if err := s.snap.Save(s.Conversations()); err != nil {
		s.logger.Warn("persisting conversations failed", "err", err)
	}
}
