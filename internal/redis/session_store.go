package redis

import (
	"context"
	"errors"
	"time"

	relay_errors "chatrelay/pkg/errors"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// Session keys: session:{session_id} -> user id, TTL = access token
// lifetime. A key that is gone (expired or deleted) means the session is
// no longer valid.

type SessionStore struct {
	client *goredis.Client
}

func NewSessionStore(client *goredis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func sessionKey(sessionID uuid.UUID) string {
	return "session:" + sessionID.String()
}

func (s *SessionStore) Put(ctx context.Context, sessionID, userID uuid.UUID, ttl time.Duration) error {
	return s.client.Set(ctx, sessionKey(sessionID), userID.String(), ttl).Err()
}

func (s *SessionStore) Get(ctx context.Context, sessionID uuid.UUID) (uuid.UUID, error) {
	value, err := s.client.Get(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return uuid.Nil, relay_errors.ErrUnauthorized
		}
		return uuid.Nil, err
	}
	userID, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, relay_errors.ErrUnauthorized
	}
	return userID, nil
}

func (s *SessionStore) Delete(ctx context.Context, sessionID uuid.UUID) error {
	return s.client.Del(ctx, sessionKey(sessionID)).Err()
}
