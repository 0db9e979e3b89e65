package insight

import (
	"time"

	"github.com/google/uuid"
)

// Insight represents a row in the insights table: a prompt issued against an
// uploaded file and the generated response.
type Insight struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	FileID    uuid.UUID
	Prompt    string
	Data      string
	CreatedAt time.Time
}
