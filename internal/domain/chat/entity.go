package chat

import (
	"time"

	"github.com/google/uuid"
)

// Chat is a conversation created by one user. MemberIDs holds the
// participants; the creator is always a member.
type Chat struct {
	ID        uuid.UUID   `json:"id"`
	CreatorID uuid.UUID   `json:"creator_id"`
	Name      string      `json:"name"`
	MemberIDs []uuid.UUID `json:"member_ids"`
	CreatedAt time.Time   `json:"created_at"`
}

type CreateInput struct {
	Name      string
	MemberIDs []uuid.UUID
}

// UpdateInput carries partial updates; zero fields are left unchanged.
type UpdateInput struct {
	Name      string
	MemberIDs []uuid.UUID
}

// Changes is the repository-level update set. Nil fields keep the stored
// value.
type Changes struct {
	Name      *string
	MemberIDs *[]uuid.UUID
}
