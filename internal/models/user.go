package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an account known to the sandbox server.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID ID

	// Username is the login name, also shown as the member name in groups.
	Username string

	// Email is the user's email address (unique).
	Email string

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	CreatedAt int64
	UpdatedAt int64
}

// NewUser creates a user with a fresh ID and timestamps.
func NewUser(username, email, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		ID:           ID(uuid.New().String()),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// AsMember returns the user as a group member.
func (u *User) AsMember() Member {
	return Member{ID: u.ID, Username: u.Username}
}
