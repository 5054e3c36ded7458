// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "time"

// =============================================================================
// USER PROFILE
// =============================================================================

// UserProfile is the account record returned by the gateway.
type UserProfile struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	BusinessType string    `json:"business_type"`
	CreatedAt    time.Time `json:"created_at"`

	// Optional personal fields.
	FullName         string `json:"full_name,omitempty"`
	Nickname         string `json:"nickname,omitempty"`
	Phone            string `json:"phone,omitempty"`
	Country          string `json:"country,omitempty"`
	Gender           string `json:"gender,omitempty"`
	TelegramUsername string `json:"telegram_username,omitempty"`
}

// DisplayName returns the nickname, full name, or email, in that order of
// preference.
func (u UserProfile) DisplayName() string {
	if u.Nickname != "" {
		return u.Nickname
	}
	if u.FullName != "" {
		return u.FullName
	}
	return u.Email
}

// =============================================================================
// SESSION
// =============================================================================

// Session holds the current user and session token. It is persisted across
// restarts and re-validated against the gateway on demand.
type Session struct {
	User  *UserProfile `json:"user,omitempty"`
	Token string       `json:"token,omitempty"`
}

// IsAuthenticated is true only when both a token and a user profile are
// present. Conversation sync is gated on this.
func (s Session) IsAuthenticated() bool {
	return s.Token != "" && s.User != nil
}

// UserID returns the current user's id or "" when signed out.
func (s Session) UserID() string {
	if s.User == nil {
		return ""
	}
	return s.User.ID
}
