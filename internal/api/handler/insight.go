package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/filedrive/filedrive/internal/api/middleware"
	"github.com/filedrive/filedrive/internal/api/response"
	"github.com/filedrive/filedrive/internal/api/validation"
	"github.com/filedrive/filedrive/internal/file"
	"github.com/filedrive/filedrive/internal/insight"
)

type generateInsightRequest struct {
	Prompt string `json:"prompt"`
	FileID string `json:"file_id"`
}

type insightResponse struct {
	ID        string `json:"id"`
	FileID    string `json:"fileId"`
	Prompt    string `json:"prompt"`
	Response  string `json:"response"`
	CreatedAt string `json:"createdAt"`
}

func toInsightResponse(in *insight.Insight) insightResponse {
	return insightResponse{
		ID:        in.ID.String(),
		FileID:    in.FileID.String(),
		Prompt:    in.Prompt,
		Response:  in.Data,
		CreatedAt: in.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// InsightHandler handles insight endpoints.
type InsightHandler struct {
	insights *insight.Service
	files    *file.Service
}

// NewInsightHandler creates a new InsightHandler.
func NewInsightHandler(insights *insight.Service, files *file.Service) *InsightHandler {
	return &InsightHandler{insights: insights, files: files}
}

// Generate handles POST /insights. The requester must own the referenced
// file or be an admin.
func (h *InsightHandler) Generate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	principal := middleware.GetPrincipal(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req generateInsightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateGenerateInsightRequest(validation.GenerateInsightRequest{
		Prompt: req.Prompt,
		FileID: req.FileID,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	fileID, _ := uuid.Parse(req.FileID)

	meta, err := h.files.Stat(r.Context(), fileID)
	if err != nil {
		if errors.Is(err, file.ErrFileNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "File not found", requestID)
			return
		}
		slog.Error("failed to fetch file", "error", err, "fileId", fileID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to generate insight", requestID)
		return
	}

	if !middleware.CanAccess(principal, meta.UserID) {
		response.Err(w, http.StatusForbidden, "FORBIDDEN", "Insufficient permissions", requestID)
		return
	}

	in, err := h.insights.Generate(r.Context(), req.Prompt, fileID)
	if err != nil {
		switch {
		case errors.Is(err, file.ErrFileNotFound):
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "File not found", requestID)
		case errors.Is(err, insight.ErrGeneration):
			slog.Error("generative model call failed", "error", err, "fileId", fileID)
			response.Err(w, http.StatusBadGateway, "GENERATION_FAILED", "The generative model request failed", requestID)
		default:
			slog.Error("failed to generate insight", "error", err, "fileId", fileID)
			response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to generate insight", requestID)
		}
		return
	}

	response.Success(w, http.StatusCreated, toInsightResponse(in), requestID)
}

// GetByID handles GET /insights/{id} (owner or admin).
func (h *InsightHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	principal := middleware.GetPrincipal(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	in, err := h.insights.GetByID(r.Context(), id)
	if err != nil {
		h.writeInsightError(w, err, requestID)
		return
	}

	if !middleware.CanAccess(principal, in.UserID) {
		response.Err(w, http.StatusForbidden, "FORBIDDEN", "Insufficient permissions", requestID)
		return
	}

	response.Success(w, http.StatusOK, toInsightResponse(in), requestID)
}

// Delete handles DELETE /insights/{id} (owner or admin).
func (h *InsightHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	principal := middleware.GetPrincipal(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	in, err := h.insights.GetByID(r.Context(), id)
	if err != nil {
		h.writeInsightError(w, err, requestID)
		return
	}

	if !middleware.CanAccess(principal, in.UserID) {
		response.Err(w, http.StatusForbidden, "FORBIDDEN", "Insufficient permissions", requestID)
		return
	}

	if err := h.insights.Delete(r.Context(), id); err != nil {
		h.writeInsightError(w, err, requestID)
		return
	}

	response.NoContent(w)
}

func (h *InsightHandler) writeInsightError(w http.ResponseWriter, err error, requestID string) {
	if errors.Is(err, insight.ErrInsightNotFound) {
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "Insight not found", requestID)
		return
	}
	slog.Error("insight operation failed", "error", err)
	response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Insight operation failed", requestID)
}
