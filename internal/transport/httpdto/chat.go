package httpdto

import (
	"time"

	"chatrelay/internal/domain/chat"
)

// CreateChatRequest is used for POST /v1/chats
type CreateChatRequest struct {
	Name      string   `json:"name" binding:"required"`
	MemberIDs []string `json:"member_ids,omitempty"`
}

// UpdateChatRequest is used for PUT /v1/chats/:id
type UpdateChatRequest struct {
	Name      string   `json:"name,omitempty"`
	MemberIDs []string `json:"member_ids,omitempty"`
}

// ChatDTO represents a chat in API responses
type ChatDTO struct {
	ID        string   `json:"id"`
	CreatorID string   `json:"creator_id"`
	Name      string   `json:"name"`
	MemberIDs []string `json:"member_ids"`
	CreatedAt string   `json:"created_at"`
}

// ListChatsResponse is returned when listing chats
type ListChatsResponse struct {
	Chats []ChatDTO `json:"chats"`
}

// FromChat converts a domain chat to ChatDTO
func FromChat(c chat.Chat) ChatDTO {
	members := make([]string, len(c.MemberIDs))
	for i, id := range c.MemberIDs {
		members[i] = id.String()
	}
	return ChatDTO{
		ID:        c.ID.String(),
		CreatorID: c.CreatorID.String(),
		Name:      c.Name,
		MemberIDs: members,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
}

// FromChatSlice converts a slice of domain chats to ChatDTO slice
func FromChatSlice(chats []chat.Chat) []ChatDTO {
	dtos := make([]ChatDTO, len(chats))
	for i, c := range chats {
		dtos[i] = FromChat(c)
	}
	return dtos
}
