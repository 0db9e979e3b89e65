package validation

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateInsightRequest mirrors the fields needed for insight generation validation.
type GenerateInsightRequest struct {
	Prompt string
	FileID string
}

// ValidateGenerateInsightRequest validates the fields of an insight generation request.
func ValidateGenerateInsightRequest(req GenerateInsightRequest) []FieldError {
	var errs []FieldError

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		errs = append(errs, FieldError{Field: "prompt", Message: "prompt is required"})
	} else if len(prompt) < 10 || len(prompt) > 1024 {
		errs = append(errs, FieldError{Field: "prompt", Message: "prompt must be between 10 and 1024 characters"})
	}

	if req.FileID == "" {
		errs = append(errs, FieldError{Field: "file_id", Message: "file_id is required"})
	} else if _, err := uuid.Parse(req.FileID); err != nil {
		errs = append(errs, FieldError{Field: "file_id", Message: "file_id must be a valid UUID"})
	}

	return errs
}
