package repository

import (
	"context"

	"chatrelay/internal/domain/chat"
	"chatrelay/internal/domain/user"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, rec *user.Record) error
	Find(ctx context.Context) ([]user.Record, error)
	FindOneByID(ctx context.Context, id uuid.UUID) (user.Record, error)
	FindOneByEmail(ctx context.Context, email string) (user.Record, error)
	FindOneAndUpdate(ctx context.Context, id uuid.UUID, changes user.Changes) (user.Record, error)
	FindOneAndDelete(ctx context.Context, id uuid.UUID) (user.Record, error)
}

type ChatRepository interface {
	Create(ctx context.Context, c *chat.Chat) error
	Find(ctx context.Context, skip, limit int) ([]chat.Chat, error)
	FindOneByID(ctx context.Context, id uuid.UUID) (chat.Chat, error)
	FindOneAndUpdate(ctx context.Context, id uuid.UUID, changes chat.Changes) (chat.Chat, error)
	FindOneAndDelete(ctx context.Context, id uuid.UUID) (chat.Chat, error)
}
