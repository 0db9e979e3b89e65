package validation

import "strings"

// RegisterRequest mirrors the fields needed for registration validation.
type RegisterRequest struct {
	Email    string
	Username string
	Password string
}

// ValidateRegisterRequest validates the fields of a registration request.
func ValidateRegisterRequest(req RegisterRequest) []FieldError {
	var errs []FieldError

	errs = append(errs, validateEmail(req.Email)...)

	username := strings.TrimSpace(req.Username)
	if username == "" {
		errs = append(errs, FieldError{Field: "username", Message: "username is required"})
	} else if len(username) < 3 || len(username) > 50 {
		errs = append(errs, FieldError{Field: "username", Message: "username must be between 3 and 50 characters"})
	}

	errs = append(errs, validatePassword("password", req.Password)...)

	return errs
}

// LoginRequest mirrors the form fields of a login request.
type LoginRequest struct {
	Email    string
	Password string
}

// ValidateLoginRequest validates the fields of a login request.
func ValidateLoginRequest(req LoginRequest) []FieldError {
	var errs []FieldError

	if strings.TrimSpace(req.Email) == "" {
		errs = append(errs, FieldError{Field: "username", Message: "username is required"})
	}
	if req.Password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "password is required"})
	}

	return errs
}

func validateEmail(email string) []FieldError {
	email = strings.TrimSpace(email)
	if email == "" {
		return []FieldError{{Field: "email", Message: "email is required"}}
	}

	at := strings.Index(email, "@")
	dot := strings.LastIndex(email, ".")
	if at < 1 || dot < at+2 || dot == len(email)-1 || len(email) > 255 {
		return []FieldError{{Field: "email", Message: "email must be a valid address"}}
	}

	return nil
}

func validatePassword(field, password string) []FieldError {
	if password == "" {
		return []FieldError{{Field: field, Message: field + " is required"}}
	}
	if len(password) < 8 || len(password) > 1024 {
		return []FieldError{{Field: field, Message: field + " must be between 8 and 1024 characters"}}
	}
	return nil
}
