package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrTokenExpired is returned when a token's expiry claim is in the past.
var ErrTokenExpired = errors.New("token has expired")

// ErrTokenInvalid is returned when a token cannot be parsed, carries a bad
// signature, or is missing required claims.
var ErrTokenInvalid = errors.New("token is invalid")

// Claims is the claim set carried by an access token. Subject holds the
// user ID; IsAdmin carries the coarse role flag.
type Claims struct {
	jwt.RegisteredClaims
	IsAdmin bool `json:"is_admin"`
}

// TokenManager issues and verifies HS256-signed bearer tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager creates a TokenManager. The secret must be non-empty;
// callers are expected to fail startup otherwise (config marks it required).
func NewTokenManager(secret string, ttl time.Duration) (*TokenManager, error) {
	if secret == "" {
		return nil, errors.New("token signing secret is not set")
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl}, nil
}

// Issue mints a signed token for the given user with sub, is_admin, iat and
// exp claims. Expiry is always set from the configured lifetime.
func (m *TokenManager) Issue(userID uuid.UUID, isAdmin bool) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		IsAdmin: isAdmin,
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token string, returning its claims. Tokens
// without an expiry claim are rejected outright.
func (m *TokenManager) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	if !token.Valid || claims.Subject == "" {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
