// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/jeranaias/advisor-tui/internal/gateway"
	"github.com/jeranaias/advisor-tui/internal/model"
	"github.com/jeranaias/advisor-tui/internal/util"
)

// ErrNotAuthenticated indicates an operation that requires a session was
// attempted while signed out.
var ErrNotAuthenticated = errors.New("not authenticated")

// AuthGateway is the slice of the backend API the auth store needs.
type AuthGateway interface {
	Login(ctx context.Context, email, password string) (*gateway.AuthResponse, error)
	Register(ctx context.Context, reg gateway.RegisterRequest) (*gateway.AuthResponse, error)
	CheckToken(ctx context.Context, token string) (bool, error)
	Profile(ctx context.Context, userID string) (*model.UserProfile, error)
	UpdateProfile(ctx context.Context, token string, profile model.UserProfile) (*model.UserProfile, error)
}

// AuthStore holds the current session. The session survives restarts,
// sealed at rest so the token is not plaintext on disk, and is
// re-validated against the gateway on demand.
type AuthStore struct {
	mu      sync.Mutex
	session model.Session

	gw     AuthGateway
	ks     *Keystore
	path   string
	logger *log.Logger
}

// NewAuthStore creates the auth store and rehydrates any persisted
// session. A session that cannot be decrypted is dropped, not fatal.
func NewAuthStore(gw AuthGateway, stateDir string, logger *log.Logger) (*AuthStore, error) {
	ks, err := NewKeystore(filepath.Join(stateDir, "auth.key"))
	if err != nil {
		return nil, err
	}
	s := &AuthStore{
		gw:     gw,
		ks:     ks,
		path:   filepath.Join(stateDir, "auth.bin"),
		logger: logger,
	}
	if err := s.load(); err != nil {
		logger.Warn("dropping unreadable auth snapshot", "err", err)
	}
	return s, nil
}

// Session returns the current session.
func (s *AuthStore) Session() model.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.session
	if sess.User != nil {
		u := *sess.User
		sess.User = &u
	}
	return sess
}

// IsAuthenticated reports whether a complete session is present.
func (s *AuthStore) IsAuthenticated() bool {
	return s.Session().IsAuthenticated()
}

// Login exchanges credentials for a session and hydrates the full profile.
func (s *AuthStore) Login(ctx context.Context, email, password string) error {
	resp, err := s.gw.Login(ctx, email, password)
	if err != nil {
		return err
	}
	return s.adopt(ctx, resp)
}

// Register creates an account and signs in.
func (s *AuthStore) Register(ctx context.Context, reg gateway.RegisterRequest) error {
	resp, err := s.gw.Register(ctx, reg)
	if err != nil {
		return err
	}
	return s.adopt(ctx, resp)
}

// adopt installs a fresh session, fetching the full profile record since
// the auth response carries only the core fields.
func (s *AuthStore) adopt(ctx context.Context, resp *gateway.AuthResponse) error {
	profile, err := s.gw.Profile(ctx, resp.User.ID)
	if err != nil {
		// The core fields are enough to operate on.
		s.logger.Warn("profile fetch after sign-in failed", "err", err)
		profile = &resp.User
	}
	s.mu.Lock()
	s.session = model.Session{User: profile, Token: resp.Token}
	s.mu.Unlock()
	return s.save()
}

// Logout clears the session locally. The backend keeps no server-side
// session state to invalidate.
func (s *AuthStore) Logout() {
	s.mu.Lock()
	s.session = model.Session{}
	s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.logger.Warn("removing auth snapshot failed", "err", err)
	}
}

// CheckAuth validates the persisted token against the gateway. Any
// failure, network included, clears the session and returns false: an
// unverifiable token routes the user back to sign-in rather than letting
// sync run against a dead session.
func (s *AuthStore) CheckAuth(ctx context.Context) bool {
	sess := s.Session()
	if sess.Token == "" {
		return false
	}
	valid, err := s.gw.CheckToken(ctx, sess.Token)
	if err != nil || !valid || sess.User == nil {
		s.Logout()
		return false
	}
	return true
}

// UpdateProfile pushes profile changes and stores the updated record.
func (s *AuthStore) UpdateProfile(ctx context.Context, profile model.UserProfile) error {
	sess := s.Session()
	if !sess.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	updated, err := s.gw.UpdateProfile(ctx, sess.Token, profile)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.session.User = updated
	s.mu.Unlock()
	return s.save()
}

// =============================================================================
// PERSISTENCE
// =============================================================================

func (s *AuthStore) load() error {
	sealed, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read auth snapshot: %w", err)
	}
	plain, err := s.ks.Open(sealed)
	if err != nil {
		return err
	}
	var sess model.Session
	if err := json.Unmarshal(plain, &sess); err != nil {
		return fmt.Errorf("parse auth snapshot: %w", err)
	}
	s.mu.Lock()
	s.session = sess
	s.mu.Unlock()
	return nil
}

func (s *AuthStore) save() error {
	plain, err := json.Marshal(s.Session())
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	sealed, err := s.ks.Seal(plain)
	if err != nil {
		return err
	}
	return util.AtomicWriteFile(s.path, sealed, 0600)
}
