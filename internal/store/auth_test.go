// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/advisor-tui/internal/gateway"
	"github.com/jeranaias/advisor-tui/internal/model"
)

type fakeAuthGateway struct {
	loginResp  *gateway.AuthResponse
	loginErr   error
	tokenValid bool
	tokenErr   error
	profile    *model.UserProfile
	profileErr error
}

func (f *fakeAuthGateway) Login(ctx context.Context, email, password string) (*gateway.AuthResponse, error) {
	return f.loginResp, f.loginErr
}

func (f *fakeAuthGateway) Register(ctx context.Context, reg gateway.RegisterRequest) (*gateway.AuthResponse, error) {
	return f.loginResp, f.loginErr
}

func (f *fakeAuthGateway) CheckToken(ctx context.Context, token string) (bool, error) {
	return f.tokenValid, f.tokenErr
}

func (f *fakeAuthGateway) Profile(ctx context.Context, userID string) (*model.UserProfile, error) {
	return f.profile, f.profileErr
}

func (f *fakeAuthGateway) UpdateProfile(ctx context.Context, token string, profile model.UserProfile) (*model.UserProfile, error) {
	return &profile, nil
}

func happyAuthGateway() *fakeAuthGateway {
	return &fakeAuthGateway{
		loginResp: &gateway.AuthResponse{
			User:  model.UserProfile{ID: "u1", Email: "a@b.c"},
			Token: "tok-1",
		},
		tokenValid: true,
		profile:    &model.UserProfile{ID: "u1", Email: "a@b.c", Nickname: "Alex"},
	}
}

func TestLoginHydratesProfileAndPersists(t *testing.T) {
	dir := t.TempDir()
	logger := log.New(io.Discard)

	s, err := NewAuthStore(happyAuthGateway(), dir, logger)
	require.NoError(t, err)
	require.NoError(t, s.Login(context.Background(), "a@b.c", "pw"))

	sess := s.Session()
	require.True(t, sess.IsAuthenticated())
	assert.Equal(t, "Alex", sess.User.Nickname, "full profile must replace the core auth record")

	// Session survives a restart, decrypted from disk.
	s2, err := NewAuthStore(happyAuthGateway(), dir, logger)
	require.NoError(t, err)
	assert.True(t, s2.Session().IsAuthenticated())
	assert.Equal(t, "tok-1", s2.Session().Token)
}

func TestLoginFailurePropagates(t *testing.T) {
	gw := &fakeAuthGateway{loginErr: errors.New("invalid credentials")}
	s, err := NewAuthStore(gw, t.TempDir(), log.New(io.Discard))
	require.NoError(t, err)

	require.Error(t, s.Login(context.Background(), "a@b.c", "wrong"))
	assert.False(t, s.Session().IsAuthenticated())
}

func TestCheckAuthClearsDeadSession(t *testing.T) {
	gw := happyAuthGateway()
	s, err := NewAuthStore(gw, t.TempDir(), log.New(io.Discard))
	require.NoError(t, err)
	require.NoError(t, s.Login(context.Background(), "a@b.c", "pw"))

	gw.tokenValid = false
	assert.False(t, s.CheckAuth(context.Background()))
	assert.False(t, s.Session().IsAuthenticated(), "invalid token must clear the session")
}

func TestCheckAuthNetworkFailureClearsSession(t *testing.T) {
	gw := happyAuthGateway()
	s, err := NewAuthStore(gw, t.TempDir(), log.New(io.Discard))
	require.NoError(t, err)
	require.NoError(t, s.Login(context.Background(), "a@b.c", "pw"))

	gw.tokenErr = errors.New("connection refused")
	assert.False(t, s.CheckAuth(context.Background()))
	assert.False(t, s.Session().IsAuthenticated())
}

func TestLogoutRemovesSnapshot(t *testing.T) {
	dir := t.TempDir()
	logger := log.New(io.Discard)
	s, err := NewAuthStore(happyAuthGateway(), dir, logger)
	require.NoError(t, err)
	require.NoError(t, s.Login(context.Background(), "a@b.c", "pw"))

	s.Logout()
	assert.False(t, s.Session().IsAuthenticated())

	s2, err := NewAuthStore(happyAuthGateway(), dir, logger)
	require.NoError(t, err)
	assert.False(t, s2.Session().IsAuthenticated(), "logged-out session must not resurrect")
}

func TestAuthSnapshotIsNotPlaintext(t *testing.T) {
	dir := t.TempDir()
	s, err := NewAuthStore(happyAuthGateway(), dir, log.New(io.Discard))
	require.NoError(t, err)
	require.NoError(t, s.Login(context.Background(), "a@b.c", "pw"))

	raw, err := os.ReadFile(filepath.Join(dir, "auth.bin"))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "tok-1", "token must not appear in plaintext on disk")
}

func TestKeystoreSealOpenRoundTrip(t *testing.T) {
	dir := t.TempDir()
	ks, err := NewKeystore(dir + "/auth.key")
	require.NoError(t, err)

	sealed, err := ks.Seal([]byte("secret"))
	require.NoError(t, err)
	plain, err := ks.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "secret", string(plain))

	// Flipping a ciphertext byte must fail authentication.
	sealed[len(sealed)-1] ^= 0xff
	_, err = ks.Open(sealed)
	assert.ErrorIs(t, err, ErrSealedCorrupt)

	_, err = ks.Open([]byte("short"))
	assert.ErrorIs(t, err, ErrSealedCorrupt)
}
