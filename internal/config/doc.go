// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for the
// advisor client.
//
// Configuration sources, in order of precedence:
//   - ADVISOR_* environment variables
//   - ~/.advisor/config.toml
//   - built-in defaults
//
// A file watcher can reload the config while the app runs, so pointing
// the client at a different backend does not require a restart.
package config
