package user

import (
	"time"

	"github.com/google/uuid"
)

// User represents a row in the users table. PasswordHash never leaves the
// service layer.
type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	IsAdmin      bool
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
