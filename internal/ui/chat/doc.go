// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the conversation view: the message transcript,
// the typewriter reveal of advisor replies, and the reconciliation of the
// view's local message list against the shared conversation store.
//
// The view keeps its own message slice so an in-flight send or reveal is
// never disturbed by a background sync. Reconciliation runs only when the
// view is quiet and merges by message id, preferring the store when it
// strictly supersedes the local list and taking the union otherwise.
package chat
