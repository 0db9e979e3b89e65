package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/filedrive/filedrive/internal/auth"
)

// ErrEmailTaken is returned when registering with an already-used email.
var ErrEmailTaken = errors.New("a user with this email already exists")

// ErrInvalidCredentials is returned for any authentication failure. The same
// error covers an unknown email and a wrong password so callers cannot tell
// which part was wrong.
var ErrInvalidCredentials = errors.New("wrong email or password")

// Service provides user account operations.
type Service struct {
	repo       Repository
	bcryptCost int
}

// NewService creates a new user Service.
func NewService(repo Repository, bcryptCost int) *Service {
	return &Service{repo: repo, bcryptCost: bcryptCost}
}

// Register creates a new non-admin user with a hashed password. Returns
// ErrEmailTaken if the email is already registered.
func (s *Service) Register(ctx context.Context, username, email, password string) (*User, error) {
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("checking email: %w", err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	u := &User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		IsAdmin:      false,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		// Concurrent registration can still trip the unique constraint.
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return u, nil
}

// Authenticate verifies an email/password pair. On success it records the
// login time and returns the user; any mismatch yields ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("fetching user by email: %w", err)
	}

	if !auth.CheckPassword(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if err := s.repo.UpdateLastLogin(ctx, u.ID, now); err != nil {
		return nil, fmt.Errorf("recording login time: %w", err)
	}
	u.LastLoginAt = &now

	return u, nil
}

// ChangePassword re-hashes and persists a new password after verifying the
// old one against the stored hash.
func (s *Service) ChangePassword(ctx context.Context, u *User, oldPassword, newPassword string) error {
	if !auth.CheckPassword(oldPassword, u.PasswordHash) {
		return ErrInvalidCredentials
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}

	if err := s.repo.UpdatePassword(ctx, u.ID, hash); err != nil {
		return err
	}
	u.PasswordHash = hash

	return nil
}

// GetByID returns a user or ErrUserNotFound.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns a page of users ordered newest-first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]User, error) {
	return s.repo.List(ctx, limit, offset)
}

// Count returns the total number of users.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// Delete removes a user account. Owned files and insights rows go with it
// via FK cascade; stored blobs are not swept.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
