// Package model defines domain entities for the application.
package model

import "time"

// User is a registered account.
// PasswordHash is never serialized; handlers expose users through dto.UserResponse.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
