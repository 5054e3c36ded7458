// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli is the command-line entry point: flag parsing, the
// terminal sign-in flow, and launching the TUI with the config watcher
// attached.
package cli
