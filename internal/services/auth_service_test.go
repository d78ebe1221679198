package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"chatrelay/internal/domain/user"
	relay_errors "chatrelay/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memorySessionStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]uuid.UUID
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{sessions: make(map[uuid.UUID]uuid.UUID)}
}

func (s *memorySessionStore) Put(_ context.Context, sessionID, userID uuid.UUID, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = userID
	return nil
}

func (s *memorySessionStore) Get(_ context.Context, sessionID uuid.UUID) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	userID, ok := s.sessions[sessionID]
	if !ok {
		return uuid.Nil, relay_errors.ErrUnauthorized
	}
	return userID, nil
}

func (s *memorySessionStore) Delete(_ context.Context, sessionID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

func newTestAuthService(t *testing.T) (*AuthService, user.User) {
	t.Helper()
	users, _, _ := newTestUserService()
	auth := NewAuthService(users, newMemorySessionStore(), "test-secret", time.Hour)

	created, err := users.Create(context.Background(), user.CreateInput{
		Email:    "login@example.com",
		Password: "right-password",
	})
	require.NoError(t, err)
	return auth, created
}

func TestLoginIssuesUsableToken(t *testing.T) {
	auth, created := newTestAuthService(t)
	ctx := context.Background()

	resp, err := auth.Login(ctx, "login@example.com", "right-password")
	require.NoError(t, err)
	assert.Equal(t, created.ID, resp.User.ID)
	assert.Equal(t, int64(3600), resp.ExpiresIn)

	userID, sessionID, err := auth.Authenticate(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, created.ID, userID)
	assert.Equal(t, resp.SessionID, sessionID.String())
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := auth.Login(ctx, "login@example.com", "wrong-password")
	assert.ErrorIs(t, err, relay_errors.ErrInvalidCredentials)

	_, err = auth.Login(ctx, "nobody@example.com", "right-password")
	assert.ErrorIs(t, err, relay_errors.ErrInvalidCredentials)
}

func TestLogoutRevokesSession(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	resp, err := auth.Login(ctx, "login@example.com", "right-password")
	require.NoError(t, err)

	sessionID, err := uuid.Parse(resp.SessionID)
	require.NoError(t, err)
	require.NoError(t, auth.Logout(ctx, sessionID))

	// Token is still cryptographically valid but the session is gone.
	_, _, err = auth.Authenticate(ctx, resp.AccessToken)
	assert.ErrorIs(t, err, relay_errors.ErrUnauthorized)
}

func TestAuthenticateRejectsGarbageTokens(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	_, _, err := auth.Authenticate(ctx, "")
	assert.ErrorIs(t, err, relay_errors.ErrUnauthorized)

	_, _, err = auth.Authenticate(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, relay_errors.ErrUnauthorized)
}

func TestAuthenticateRejectsForeignSignature(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	users, _, _ := newTestUserService()
	foreign := NewAuthService(users, newMemorySessionStore(), "other-secret", time.Hour)
	_, err := users.Create(ctx, user.CreateInput{Email: "login@example.com", Password: "right-password"})
	require.NoError(t, err)

	resp, err := foreign.Login(ctx, "login@example.com", "right-password")
	require.NoError(t, err)

	_, _, err = auth.Authenticate(ctx, resp.AccessToken)
	assert.ErrorIs(t, err, relay_errors.ErrUnauthorized)
}
