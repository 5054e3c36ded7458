// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small shared helpers for the advisor client:
// atomic file writes for snapshot persistence and Unicode-safe string
// truncation used by the conversation list and title derivation.
package util
