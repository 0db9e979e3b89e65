package insight

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrInsightNotFound is returned when an insight record is not found.
var ErrInsightNotFound = errors.New("insight not found")

// Repository provides operations on the insights table.
type Repository interface {
	Create(ctx context.Context, insight *Insight) error
	GetByID(ctx context.Context, id uuid.UUID) (*Insight, error)
	ListByFile(ctx context.Context, fileID uuid.UUID) ([]Insight, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
