// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components holds the reusable Bubble Tea widgets shared by the
// advisor views: the typewriter reveal, the thinking spinner, markdown
// rendering for assistant replies, and attachment chips.
package components
