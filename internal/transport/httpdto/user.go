package httpdto

import (
	"time"

	"chatrelay/internal/domain/user"
)

// CreateUserRequest is used for POST /v1/users
type CreateUserRequest struct {
	Email       string `json:"email" binding:"required,email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password" binding:"required,min=8"`
}

// UpdateUserRequest is used for PATCH /v1/users/me
type UpdateUserRequest struct {
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	Password    string `json:"password,omitempty"`
}

// UserDTO represents a user in API responses. It never carries password
// material.
type UserDTO struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	ImageURL    string `json:"image_url"`
	CreatedAt   string `json:"created_at"`
}

// ListUsersResponse is returned when listing users
type ListUsersResponse struct {
	Users []UserDTO `json:"users"`
}

// UploadImageResponse is returned after a profile image upload
type UploadImageResponse struct {
	ImageURL string `json:"image_url"`
}

// FromUser converts a domain user to UserDTO
func FromUser(u user.User) UserDTO {
	return UserDTO{
		ID:          u.ID.String(),
		Email:       u.Email,
		DisplayName: u.DisplayName,
		ImageURL:    u.ImageURL,
		CreatedAt:   u.CreatedAt.Format(time.RFC3339),
	}
}

// FromUserSlice converts a slice of domain users to UserDTO slice
func FromUserSlice(users []user.User) []UserDTO {
	dtos := make([]UserDTO, len(users))
	for i, u := range users {
		dtos[i] = FromUser(u)
	}
	return dtos
}
