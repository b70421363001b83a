package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the fixed lifetime of issued session tokens.
const TokenTTL = time.Hour

var (
	// ErrTokenExpired indicates the token was valid but its lifetime has passed.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenMalformed indicates the token failed signature verification,
	// could not be decoded, or is missing required claims.
	ErrTokenMalformed = errors.New("token malformed")
)

// TokenService issues and verifies signed session tokens. The signing secret
// is fixed at construction and never re-read, so a single instance is safe
// for concurrent use across requests.
type TokenService struct {
	secret []byte
}

// NewTokenService builds a TokenService from the configured signing secret.
// An empty or blank secret is a configuration error and must be treated as
// fatal at startup.
func NewTokenService(secret string) (*TokenService, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("jwt signing secret is required")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// Issue produces a signed token for the given subject, expiring TokenTTL
// from now.
func (s *TokenService) Issue(subjectID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subjectID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses the token, checks its signature and expiry, and returns the
// subject identifier it carries.
func (s *TokenService) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenMalformed
		}
		return s.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenMalformed
	}

	if !token.Valid || claims.Subject == "" {
		return "", ErrTokenMalformed
	}
	return claims.Subject, nil
}
