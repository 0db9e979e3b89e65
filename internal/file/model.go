package file

import (
	"time"

	"github.com/google/uuid"
)

// File represents a row in the files table. The row holds metadata only; the
// bytes live in object storage under the key held in Name.
type File struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	Extension string
	MimeType  string
	Size      int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// WithURL pairs file metadata with a freshly signed retrieval URL.
type WithURL struct {
	File
	URL string
}
