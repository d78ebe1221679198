package services

import (
	"context"

	"chatrelay/pkg/logger"

	"github.com/google/uuid"
)

type ctxKey int

const (
	userIDKey ctxKey = iota
	sessionIDKey
)

// WithUserSessionContext records the authenticated identity on the request
// context, including the logger's user-id field.
func WithUserSessionContext(ctx context.Context, userID, sessionID uuid.UUID) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	ctx = context.WithValue(ctx, sessionIDKey, sessionID)
	return context.WithValue(ctx, logger.UserIdKey, userID.String())
}

func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey).(uuid.UUID)
	return id, ok
}

func SessionIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(sessionIDKey).(uuid.UUID)
	return id, ok
}
