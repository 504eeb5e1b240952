package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a platform user
type User struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Role         string     `json:"role" db:"role"`
	StartupID    *uuid.UUID `json:"startup_id" db:"startup_id"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// Available user roles. Partners review applications and manage the
// portfolio; founders see only their own startup.
const (
	RolePartner = "partner"
	RoleFounder = "founder"
)

// IsPartner returns true if the user has partner (reviewer) privileges
func (u *User) IsPartner() bool {
	return u.Role == RolePartner
}

// IsFounder returns true if the user is a founder
func (u *User) IsFounder() bool {
	return u.Role == RoleFounder
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// RegisterRequest represents an account registration request
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role"`
}
