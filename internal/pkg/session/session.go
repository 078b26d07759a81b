// Package session reads the bearer tokens issued by the places backend.
package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned when a token fails verification.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the token payload. The backend may identify the user by
// user_id, sub or username.
type Claims struct {
	UserID   string `json:"user_id,omitempty"`
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

// Identity returns the most specific user identifier in the claims.
func (c *Claims) Identity() string {
	switch {
	case c.UserID != "":
		return c.UserID
	case c.Subject != "":
		return c.Subject
	default:
		return c.Username
	}
}

// BearerToken strips the "Bearer " prefix from an Authorization header.
func BearerToken(header string) string {
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// Expiry reads the exp claim without checking the signature. A token
// without exp returns nil.
func Expiry(token string) (*time.Time, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if claims.ExpiresAt == nil {
		return nil, nil
	}
	t := claims.ExpiresAt.Time
	return &t, nil
}

// Verifier checks HS256 tokens against a shared secret.
type Verifier struct {
	secret []byte
}

// NewVerifier creates a Verifier for secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Identity verifies token and returns the user it identifies.
func (v *Verifier) Identity(token string) (string, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	id := claims.Identity()
	if id == "" {
		return "", fmt.Errorf("%w: no user in claims", ErrInvalidToken)
	}
	return id, nil
}

// Issue signs a token for userID that expires after ttl.
func (v *Verifier) Issue(userID, username string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}
