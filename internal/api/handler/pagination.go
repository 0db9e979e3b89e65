package handler

import (
	"net/http"
	"strconv"

	"github.com/filedrive/filedrive/internal/api/validation"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// parsePagination reads limit/offset query parameters, applying defaults and
// bounds. Values outside the allowed range are reported as field errors.
func parsePagination(r *http.Request) (limit, offset int, errs []validation.FieldError) {
	limit = defaultLimit
	offset = 0

	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > maxLimit {
			errs = append(errs, validation.FieldError{Field: "limit", Message: "limit must be an integer between 1 and 100"})
		} else {
			limit = v
		}
	}

	if raw := r.URL.Query().Get("offset"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			errs = append(errs, validation.FieldError{Field: "offset", Message: "offset must be a non-negative integer"})
		} else {
			offset = v
		}
	}

	return limit, offset, errs
}
