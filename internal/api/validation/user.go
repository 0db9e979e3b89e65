package validation

// ChangePasswordRequest mirrors the fields needed for change-password validation.
type ChangePasswordRequest struct {
	OldPassword string
	NewPassword string
}

// ValidateChangePasswordRequest validates the fields of a change-password request.
func ValidateChangePasswordRequest(req ChangePasswordRequest) []FieldError {
	var errs []FieldError

	errs = append(errs, validatePassword("old_password", req.OldPassword)...)
	errs = append(errs, validatePassword("new_password", req.NewPassword)...)

	return errs
}
