// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures shared across the advisor
// client: conversations, messages, file attachments, the optional
// business-context tag set, and the authenticated user session.
//
// Invariants enforced here and relied on everywhere else:
//   - a conversation's messages are ordered by ascending timestamp
//   - no two messages within a conversation share an id
//   - an all-blank ConversationContext normalizes to nil ("no context")
package model
