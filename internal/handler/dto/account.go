// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/credvault/credvault/internal/model"
)

// CredentialsRequest is the request body for register and login.
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// MessageResponse is a success response carrying a short message.
type MessageResponse struct {
	Message string `json:"message"`
}

// UserResponse represents a user in API responses. It has no password field.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// UserListResponse is the body of GET /api/users.
type UserListResponse struct {
	Users []UserResponse `json:"users"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ToUserResponse converts a User model to UserResponse DTO.
func ToUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}

// ToUserListResponse converts users to UserListResponse. Never returns a nil slice.
func ToUserListResponse(users []*model.User) *UserListResponse {
	resp := &UserListResponse{Users: make([]UserResponse, 0, len(users))}
	for _, u := range users {
		resp.Users = append(resp.Users, ToUserResponse(u))
	}
	return resp
}
