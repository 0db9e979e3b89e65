package insight

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/filedrive/filedrive/internal/file"
	"github.com/filedrive/filedrive/internal/storage"
)

// ErrGeneration is returned when the generative-model collaborator fails.
// The call is synchronous with no retry; the failure propagates to the
// caller of the same request.
var ErrGeneration = errors.New("insight generation failed")

// Generator produces model output for a prompt over a stored file, addressed
// by its storage URI and MIME type.
type Generator interface {
	Generate(ctx context.Context, prompt, fileURI, mimeType string) (string, error)
}

// Service provides insight operations over uploaded files.
type Service struct {
	repo      Repository
	fileRepo  file.Repository
	store     storage.ObjectStore
	generator Generator
}

// NewService creates a new insight Service.
func NewService(repo Repository, fileRepo file.Repository, store storage.ObjectStore, generator Generator) *Service {
	return &Service{repo: repo, fileRepo: fileRepo, store: store, generator: generator}
}

// Generate invokes the generative model with the prompt and a reference to
// the file's stored content, persists the result keyed to the file's owner,
// and returns it. A missing file yields file.ErrFileNotFound.
func (s *Service) Generate(ctx context.Context, prompt string, fileID uuid.UUID) (*Insight, error) {
	f, err := s.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		return nil, err
	}

	data, err := s.generator.Generate(ctx, prompt, s.store.URI(f.Name), f.MimeType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	in := &Insight{
		UserID: f.UserID,
		FileID: f.ID,
		Prompt: prompt,
		Data:   data,
	}

	if err := s.repo.Create(ctx, in); err != nil {
		return nil, err
	}

	return in, nil
}

// GetByID returns an insight or ErrInsightNotFound.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Insight, error) {
	return s.repo.GetByID(ctx, id)
}

// ListByFile returns the insights generated for a file, newest first. The
// file must exist; a file with no insights yields an empty list rather than
// a not-found error.
func (s *Service) ListByFile(ctx context.Context, fileID uuid.UUID) ([]Insight, error) {
	if _, err := s.fileRepo.GetByID(ctx, fileID); err != nil {
		return nil, err
	}
	return s.repo.ListByFile(ctx, fileID)
}

// Delete removes an insight, or returns ErrInsightNotFound.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
