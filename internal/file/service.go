package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/filedrive/filedrive/internal/storage"
)

// ErrStorage is returned when the object store fails. A failed blob delete
// keeps the metadata row so no dangling reference is created.
var ErrStorage = errors.New("object storage failure")

// Service provides file operations, coordinating the metadata repository
// with the object store.
type Service struct {
	repo   Repository
	store  storage.ObjectStore
	urlTTL time.Duration
}

// NewService creates a new file Service. urlTTL bounds the lifetime of
// generated signed URLs.
func NewService(repo Repository, store storage.ObjectStore, urlTTL time.Duration) *Service {
	return &Service{repo: repo, store: store, urlTTL: urlTTL}
}

// Upload stores the content under a key derived from the owner and filename,
// then persists the metadata row. The two writes are not transactional; a
// crash in between leaves an orphaned blob, never a dangling row.
func (s *Service) Upload(ctx context.Context, ownerID uuid.UUID, filename string, content io.Reader, contentType string) (*WithURL, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}

	key := fmt.Sprintf("%s-%s", ownerID, filename)

	if err := s.store.Put(ctx, key, bytes.NewReader(data), contentType); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	f := &File{
		UserID:    ownerID,
		Name:      key,
		Extension: extensionOf(filename),
		MimeType:  contentType,
		Size:      int64(len(data)),
	}

	if err := s.repo.Create(ctx, f); err != nil {
		return nil, err
	}

	return s.withURL(ctx, f)
}

// Stat returns file metadata without generating a signed URL. Used by
// ownership gates that only need the owner.
func (s *Service) Stat(ctx context.Context, id uuid.UUID) (*File, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByID returns file metadata plus a freshly signed URL, or ErrFileNotFound.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*WithURL, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withURL(ctx, f)
}

// ListByOwner returns one owner's files, newest first, with signed URLs.
func (s *Service) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]WithURL, error) {
	files, err := s.repo.ListByUser(ctx, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	return s.withURLs(ctx, files)
}

// ListAll returns files across all owners, newest first, with signed URLs.
func (s *Service) ListAll(ctx context.Context, limit, offset int) ([]WithURL, error) {
	files, err := s.repo.ListAll(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return s.withURLs(ctx, files)
}

// Count returns the total number of files.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// CountByOwner returns the number of files owned by one user.
func (s *Service) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int, error) {
	return s.repo.CountByUser(ctx, ownerID)
}

// Delete removes the stored blob first and then the metadata row. If the
// blob deletion fails the row is kept and ErrStorage surfaces.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, f.Name); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}

	return s.repo.Delete(ctx, id)
}

func (s *Service) withURL(ctx context.Context, f *File) (*WithURL, error) {
	url, err := s.store.SignedURL(ctx, f.Name, s.urlTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return &WithURL{File: *f, URL: url}, nil
}

func (s *Service) withURLs(ctx context.Context, files []File) ([]WithURL, error) {
	items := make([]WithURL, 0, len(files))
	for i := range files {
		item, err := s.withURL(ctx, &files[i])
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, nil
}

func extensionOf(filename string) string {
	parts := strings.Split(filename, ".")
	if len(parts) < 2 {
		return ""
	}
	return parts[len(parts)-1]
}
