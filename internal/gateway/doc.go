// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gateway implements the typed HTTP client for the advisor backend.
//
// Every request carries a lang query parameter and Accept-Language header
// derived from the active UI language. Non-2xx responses are decoded into
// an *APIError carrying the server's error field, or a synthesized
// "HTTP <status>: <statusText>" message when the body is not parseable.
// Idempotent reads are retried with exponential backoff; mutating calls
// are never retried.
package gateway
