package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/filedrive/filedrive/internal/api/middleware"
	"github.com/filedrive/filedrive/internal/api/response"
	"github.com/filedrive/filedrive/internal/api/validation"
	"github.com/filedrive/filedrive/internal/file"
	"github.com/filedrive/filedrive/internal/user"
)

type userResponse struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	Username    string  `json:"username"`
	IsAdmin     bool    `json:"isAdmin"`
	LastLoginAt *string `json:"lastLoginAt"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

func toUserResponse(u *user.User) userResponse {
	var lastLogin *string
	if u.LastLoginAt != nil {
		s := u.LastLoginAt.UTC().Format(time.RFC3339)
		lastLogin = &s
	}
	return userResponse{
		ID:          u.ID.String(),
		Email:       u.Email,
		Username:    u.Username,
		IsAdmin:     u.IsAdmin,
		LastLoginAt: lastLogin,
		CreatedAt:   u.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   u.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// UserHandler handles user profile endpoints.
type UserHandler struct {
	users *user.Service
	files *file.Service
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users *user.Service, files *file.Service) *UserHandler {
	return &UserHandler{users: users, files: files}
}

// Me handles GET /users/me.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	principal := middleware.GetPrincipal(r.Context())
	response.Success(w, http.StatusOK, toUserResponse(principal), requestID)
}

// List handles GET /users (admin only).
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	limit, offset, fieldErrors := parsePagination(r)
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	users, err := h.users.List(r.Context(), limit, offset)
	if err != nil {
		slog.Error("failed to list users", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list users", requestID)
		return
	}

	total, err := h.users.Count(r.Context())
	if err != nil {
		slog.Error("failed to count users", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list users", requestID)
		return
	}

	items := make([]userResponse, 0, len(users))
	for i := range users {
		items = append(items, toUserResponse(&users[i]))
	}

	response.SuccessList(w, http.StatusOK, items, total, limit, offset, requestID)
}

// GetByID handles GET /users/{id} (self or admin).
func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	u, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "User not found", requestID)
			return
		}
		slog.Error("failed to fetch user", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch user", requestID)
		return
	}

	response.Success(w, http.StatusOK, toUserResponse(u), requestID)
}

// Files handles GET /users/{id}/files (self or admin).
func (h *UserHandler) Files(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	limit, offset, fieldErrors := parsePagination(r)
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	files, err := h.files.ListByOwner(r.Context(), id, limit, offset)
	if err != nil {
		slog.Error("failed to list user files", "error", err, "userId", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list files", requestID)
		return
	}

	total, err := h.files.CountByOwner(r.Context(), id)
	if err != nil {
		slog.Error("failed to count user files", "error", err, "userId", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list files", requestID)
		return
	}

	items := make([]fileResponse, 0, len(files))
	for i := range files {
		items = append(items, toFileResponse(&files[i]))
	}

	response.SuccessList(w, http.StatusOK, items, total, limit, offset, requestID)
}

// ChangePassword handles PUT /users/{id}/change-password (self or admin).
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateChangePasswordRequest(validation.ChangePasswordRequest{
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	target, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "User not found", requestID)
			return
		}
		slog.Error("failed to fetch user", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to change password", requestID)
		return
	}

	if err := h.users.ChangePassword(r.Context(), target, req.OldPassword, req.NewPassword); err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			response.Err(w, http.StatusBadRequest, "INVALID_CREDENTIALS", "Old password is incorrect", requestID)
			return
		}
		slog.Error("failed to change password", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to change password", requestID)
		return
	}

	response.Success(w, http.StatusOK, toUserResponse(target), requestID)
}

// Delete handles DELETE /users/{id} (self or admin).
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	if err := h.users.Delete(r.Context(), id); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "User not found", requestID)
			return
		}
		slog.Error("failed to delete user", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete user", requestID)
		return
	}

	response.NoContent(w)
}

// parseIDParam parses the {id} URL parameter, writing a 400 response and
// returning false when it is not a valid UUID.
func parseIDParam(w http.ResponseWriter, r *http.Request, requestID string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID", requestID)
		return uuid.Nil, false
	}
	return id, true
}
