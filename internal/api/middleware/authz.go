package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/filedrive/filedrive/internal/api/response"
	"github.com/filedrive/filedrive/internal/user"
)

// RequireAdmin returns middleware that rejects non-admin principals with 403.
func RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := GetRequestID(r.Context())

			principal := GetPrincipal(r.Context())
			if principal == nil {
				response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "Bearer token is required", requestID)
				return
			}

			if !principal.IsAdmin {
				response.Err(w, http.StatusForbidden, "FORBIDDEN", "Admin access required", requestID)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireSelfOrAdmin returns middleware for routes carrying a user {id} URL
// parameter. The request proceeds only when the principal is the targeted
// user or an admin.
func RequireSelfOrAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := GetRequestID(r.Context())

			principal := GetPrincipal(r.Context())
			if principal == nil {
				response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "Bearer token is required", requestID)
				return
			}

			targetID, err := uuid.Parse(chi.URLParam(r, "id"))
			if err != nil {
				response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID", requestID)
				return
			}

			if !CanAccess(principal, targetID) {
				response.Err(w, http.StatusForbidden, "FORBIDDEN", "Insufficient permissions", requestID)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// CanAccess reports whether the principal may act on a resource owned by
// ownerID: owners and admins only. Handlers use this for resources whose
// owner is known only after loading the resource.
func CanAccess(principal *user.User, ownerID uuid.UUID) bool {
	return principal.IsAdmin || principal.ID == ownerID
}
