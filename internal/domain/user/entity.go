package user

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Record is the persisted shape of a user. PasswordHash never crosses the
// service boundary; ImageURL is kept for record-keeping only and is
// recomputed on every read path.
type Record struct {
	ID           uuid.UUID
	Email        string
	DisplayName  string
	PasswordHash string
	ImageURL     sql.NullString
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// User is the outward-facing entity produced by translation from a Record.
type User struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
}

type CreateInput struct {
	Email       string
	DisplayName string
	Password    string
}

// UpdateInput carries partial updates; empty fields are left unchanged.
type UpdateInput struct {
	Email       string
	DisplayName string
	Password    string
}

// Changes is the repository-level update set. Nil fields keep the stored
// value.
type Changes struct {
	Email        *string
	DisplayName  *string
	PasswordHash *string
	ImageURL     *string
}
