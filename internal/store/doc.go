// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store holds the client's persisted state: the conversation list,
// the auth session, and UI settings. Each store persists independently as
// a JSON snapshot under the state directory and rehydrates at startup.
//
// Stores are safe for use from command goroutines. Every mutation replaces
// whole conversations under the lock, so readers never observe a
// half-updated record; accessors hand out deep copies.
package store
