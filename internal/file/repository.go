package file

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrFileNotFound is returned when a file record is not found.
var ErrFileNotFound = errors.New("file not found")

// Repository provides operations on the files table.
type Repository interface {
	Create(ctx context.Context, file *File) error
	GetByID(ctx context.Context, id uuid.UUID) (*File, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]File, error)
	ListAll(ctx context.Context, limit, offset int) ([]File, error)
	Count(ctx context.Context) (int, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
