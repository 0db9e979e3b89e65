package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/filedrive/filedrive/internal/api/middleware"
	"github.com/filedrive/filedrive/internal/api/response"
	"github.com/filedrive/filedrive/internal/file"
	"github.com/filedrive/filedrive/internal/insight"
)

// maxUploadBytes bounds multipart uploads; content is buffered to compute
// the stored size.
const maxUploadBytes = 64 << 20

type fileResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Extension string `json:"extension"`
	MimeType  string `json:"mimeType"`
	Size      int64  `json:"size"`
	URL       string `json:"url"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func toFileResponse(f *file.WithURL) fileResponse {
	return fileResponse{
		ID:        f.ID.String(),
		Name:      f.Name,
		Extension: f.Extension,
		MimeType:  f.MimeType,
		Size:      f.Size,
		URL:       f.URL,
		CreatedAt: f.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: f.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// FileHandler handles file endpoints.
type FileHandler struct {
	files    *file.Service
	insights *insight.Service
}

// NewFileHandler creates a new FileHandler.
func NewFileHandler(files *file.Service, insights *insight.Service) *FileHandler {
	return &FileHandler{files: files, insights: insights}
}

// Upload handles POST /files (multipart field "file").
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	principal := middleware.GetPrincipal(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	f, header, err := r.FormFile("file")
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_UPLOAD", "A multipart \"file\" field is required", requestID)
		return
	}
	defer f.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	uploaded, err := h.files.Upload(r.Context(), principal.ID, header.Filename, f, contentType)
	if err != nil {
		if errors.Is(err, file.ErrStorage) {
			slog.Error("object store rejected upload", "error", err, "userId", principal.ID)
			response.Err(w, http.StatusBadGateway, "STORAGE_ERROR", "Failed to store file", requestID)
			return
		}
		slog.Error("failed to upload file", "error", err, "userId", principal.ID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to upload file", requestID)
		return
	}

	response.Success(w, http.StatusOK, toFileResponse(uploaded), requestID)
}

// List handles GET /files (admin only).
func (h *FileHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	limit, offset, fieldErrors := parsePagination(r)
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	files, err := h.files.ListAll(r.Context(), limit, offset)
	if err != nil {
		slog.Error("failed to list files", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list files", requestID)
		return
	}

	total, err := h.files.Count(r.Context())
	if err != nil {
		slog.Error("failed to count files", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list files", requestID)
		return
	}

	items := make([]fileResponse, 0, len(files))
	for i := range files {
		items = append(items, toFileResponse(&files[i]))
	}

	response.SuccessList(w, http.StatusOK, items, total, limit, offset, requestID)
}

// GetByID handles GET /files/{id} (owner or admin).
func (h *FileHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	principal := middleware.GetPrincipal(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	meta, err := h.files.Stat(r.Context(), id)
	if err != nil {
		h.writeFileError(w, err, requestID)
		return
	}

	if !middleware.CanAccess(principal, meta.UserID) {
		response.Err(w, http.StatusForbidden, "FORBIDDEN", "Insufficient permissions", requestID)
		return
	}

	item, err := h.files.GetByID(r.Context(), id)
	if err != nil {
		h.writeFileError(w, err, requestID)
		return
	}

	response.Success(w, http.StatusOK, toFileResponse(item), requestID)
}

// Insights handles GET /files/{id}/insights (owner or admin). A file with no
// insights yields an empty list; a missing file yields 404.
func (h *FileHandler) Insights(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	principal := middleware.GetPrincipal(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	meta, err := h.files.Stat(r.Context(), id)
	if err != nil {
		h.writeFileError(w, err, requestID)
		return
	}

	if !middleware.CanAccess(principal, meta.UserID) {
		response.Err(w, http.StatusForbidden, "FORBIDDEN", "Insufficient permissions", requestID)
		return
	}

	insights, err := h.insights.ListByFile(r.Context(), id)
	if err != nil {
		h.writeFileError(w, err, requestID)
		return
	}

	items := make([]insightResponse, 0, len(insights))
	for i := range insights {
		items = append(items, toInsightResponse(&insights[i]))
	}

	response.Success(w, http.StatusOK, items, requestID)
}

// Delete handles DELETE /files/{id} (owner or admin).
func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	principal := middleware.GetPrincipal(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	meta, err := h.files.Stat(r.Context(), id)
	if err != nil {
		h.writeFileError(w, err, requestID)
		return
	}

	if !middleware.CanAccess(principal, meta.UserID) {
		response.Err(w, http.StatusForbidden, "FORBIDDEN", "Insufficient permissions", requestID)
		return
	}

	if err := h.files.Delete(r.Context(), id); err != nil {
		h.writeFileError(w, err, requestID)
		return
	}

	response.NoContent(w)
}

func (h *FileHandler) writeFileError(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, file.ErrFileNotFound):
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "File not found", requestID)
	case errors.Is(err, file.ErrStorage):
		slog.Error("object store failure", "error", err)
		response.Err(w, http.StatusBadGateway, "STORAGE_ERROR", "Object storage request failed", requestID)
	default:
		slog.Error("file operation failed", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "File operation failed", requestID)
	}
}
