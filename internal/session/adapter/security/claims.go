package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrTokenMalformed = errors.New("token is malformed")

// TokenClaims are the upstream access token claims the gateway cares
// about. The upstream API signs its tokens with a key the gateway does
// not hold, so claims are read without signature verification and used
// only as hints (expiry display, role fallback), never for authorization.
type TokenClaims struct {
	UserID string `json:"sub"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Inspector parses upstream access tokens.
type Inspector struct {
	parser *jwt.Parser
}

// NewInspector creates a token inspector.
func NewInspector() *Inspector {
	return &Inspector{parser: jwt.NewParser()}
}

// Inspect extracts claims from an upstream token without verifying the
// signature.
func (i *Inspector) Inspect(tokenString string) (*TokenClaims, error) {
	if tokenString == "" {
		return nil, ErrTokenMalformed
	}
	claims := &TokenClaims{}
	if _, _, err := i.parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}

// Expiry returns the token expiry time, zero when the token carries none.
func (c *TokenClaims) Expiry() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}
