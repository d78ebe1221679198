package services

import (
	"context"
	"time"

	"chatrelay/internal/domain/chat"
	"chatrelay/internal/repository"
	relay_errors "chatrelay/pkg/errors"

	"github.com/google/uuid"
)

const (
	defaultChatPageSize = 50
	maxChatPageSize     = 100
)

type ChatService struct {
	repo repository.ChatRepository
}

func NewChatService(repo repository.ChatRepository) *ChatService {
	return &ChatService{repo: repo}
}

func (s *ChatService) Create(ctx context.Context, creatorID uuid.UUID, in chat.CreateInput) (chat.Chat, error) {
	if creatorID == uuid.Nil {
		return chat.Chat{}, relay_errors.ErrInvalidInput
	}

	members := in.MemberIDs
	if !containsID(members, creatorID) {
		members = append([]uuid.UUID{creatorID}, members...)
	}

	c := chat.Chat{
		ID:        uuid.New(),
		CreatorID: creatorID,
		Name:      in.Name,
		MemberIDs: members,
		CreatedAt: time.Now(),
	}
	if err := s.repo.Create(ctx, &c); err != nil {
		return chat.Chat{}, err
	}
	return c, nil
}

func (s *ChatService) FindMany(ctx context.Context, skip, limit int) ([]chat.Chat, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultChatPageSize
	}
	if limit > maxChatPageSize {
		limit = maxChatPageSize
	}
	return s.repo.Find(ctx, skip, limit)
}

func (s *ChatService) FindOne(ctx context.Context, id uuid.UUID) (chat.Chat, error) {
	return s.repo.FindOneByID(ctx, id)
}

// Update is restricted to the chat's creator.
func (s *ChatService) Update(ctx context.Context, actorID, id uuid.UUID, in chat.UpdateInput) (chat.Chat, error) {
	existing, err := s.repo.FindOneByID(ctx, id)
	if err != nil {
		return chat.Chat{}, err
	}
	if existing.CreatorID != actorID {
		return chat.Chat{}, relay_errors.ErrForbidden
	}

	var changes chat.Changes
	if in.Name != "" {
		changes.Name = &in.Name
	}
	if in.MemberIDs != nil {
		members := in.MemberIDs
		if !containsID(members, existing.CreatorID) {
			members = append([]uuid.UUID{existing.CreatorID}, members...)
		}
		changes.MemberIDs = &members
	}
	return s.repo.FindOneAndUpdate(ctx, id, changes)
}

// Remove is restricted to the chat's creator and returns the removed chat.
func (s *ChatService) Remove(ctx context.Context, actorID, id uuid.UUID) (chat.Chat, error) {
	existing, err := s.repo.FindOneByID(ctx, id)
	if err != nil {
		return chat.Chat{}, err
	}
	if existing.CreatorID != actorID {
		return chat.Chat{}, relay_errors.ErrForbidden
	}
	return s.repo.FindOneAndDelete(ctx, id)
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
