package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/filedrive/filedrive/internal/api/middleware"
	"github.com/filedrive/filedrive/internal/api/response"
	"github.com/filedrive/filedrive/internal/api/validation"
	"github.com/filedrive/filedrive/internal/auth"
	"github.com/filedrive/filedrive/internal/user"
)

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// AuthHandler handles registration and login endpoints.
type AuthHandler struct {
	users  *user.Service
	tokens *auth.TokenManager
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users *user.Service, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateRegisterRequest(validation.RegisterRequest{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	u, err := h.users.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			response.Err(w, http.StatusConflict, "EMAIL_TAKEN", "A user with this email already exists", requestID)
			return
		}
		slog.Error("failed to register user", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to register user", requestID)
		return
	}

	h.issueToken(w, u, http.StatusCreated, requestID)
}

// Login handles POST /auth/login. The body is an OAuth2-style password form:
// the username field carries the email.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	if err := r.ParseForm(); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_FORM", "Request body must be a valid form", requestID)
		return
	}

	email := r.PostFormValue("username")
	password := r.PostFormValue("password")

	fieldErrors := validation.ValidateLoginRequest(validation.LoginRequest{
		Email:    email,
		Password: password,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	u, err := h.users.Authenticate(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			response.Err(w, http.StatusBadRequest, "INVALID_CREDENTIALS", "Wrong email or password", requestID)
			return
		}
		slog.Error("failed to authenticate user", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to log in", requestID)
		return
	}

	h.issueToken(w, u, http.StatusOK, requestID)
}

func (h *AuthHandler) issueToken(w http.ResponseWriter, u *user.User, status int, requestID string) {
	token, err := h.tokens.Issue(u.ID, u.IsAdmin)
	if err != nil {
		slog.Error("failed to issue token", "error", err, "userId", u.ID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to issue token", requestID)
		return
	}

	response.Success(w, status, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	}, requestID)
}
