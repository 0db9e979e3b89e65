package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/filedrive/filedrive/internal/api/response"
	"github.com/filedrive/filedrive/internal/auth"
	"github.com/filedrive/filedrive/internal/user"
)

const principalKey contextKey = "principal"

// UserLoader resolves a token subject to a full user record.
// user.Repository satisfies it.
type UserLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// Auth is middleware that extracts the Authorization bearer token, verifies
// it, and loads the full principal by the token's subject. Missing, malformed
// or expired tokens return 401, as do tokens whose subject no longer exists.
func Auth(tokens *auth.TokenManager, users UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := GetRequestID(r.Context())

			tokenString, ok := bearerToken(r)
			if !ok {
				response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "Bearer token is required", requestID)
				return
			}

			claims, err := tokens.Verify(tokenString)
			if err != nil {
				if errors.Is(err, auth.ErrTokenExpired) {
					response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication token has expired", requestID)
					return
				}
				response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token", requestID)
				return
			}

			subjectID, err := uuid.Parse(claims.Subject)
			if err != nil {
				response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token", requestID)
				return
			}

			principal, err := users.GetByID(r.Context(), subjectID)
			if err != nil {
				if errors.Is(err, user.ErrUserNotFound) {
					response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token", requestID)
					return
				}
				response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Authentication failed", requestID)
				return
			}

			ctx := context.WithValue(r.Context(), principalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetPrincipal retrieves the authenticated user from the request context.
func GetPrincipal(ctx context.Context) *user.User {
	if u, ok := ctx.Value(principalKey).(*user.User); ok {
		return u
	}
	return nil
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}

	return token, true
}
