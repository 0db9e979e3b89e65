// Package validation holds per-request input validators. Each validator
// returns a list of field errors suitable for the VALIDATION_ERROR response
// details.
package validation

// FieldError describes a single invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
