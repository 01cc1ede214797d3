// Package token issues and verifies the signed bearer credentials used by the API.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"amicus/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "amicus-api"

// DefaultTTL is the fixed validity window for issued tokens.
const DefaultTTL = time.Hour

// Identity is the verified subject of a bearer token.
type Identity struct {
	UserID   uint
	Username string
}

// Manager signs and verifies HMAC bearer tokens with a process-wide secret.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager returns a Manager signing with secret. A non-positive ttl falls
// back to DefaultTTL.
func NewManager(secret string, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{secret: []byte(secret), ttl: ttl}
}

// Issue creates a signed token carrying the user id and username as claims.
func (m *Manager) Issue(userID uint, username string) (string, error) {
	if len(m.secret) == 0 {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(userID), 10),
		"username": username,
		"iss":      issuer,
		"iat":      now.Unix(),
		"exp":      now.Add(m.ttl).Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(m.secret)
}

// Verify parses and validates a raw token string.
// An absent or malformed credential yields an UNAUTHENTICATED error; a token
// that fails signature, issuer, or expiry checks yields FORBIDDEN.
func (m *Manager) Verify(raw string) (*Identity, error) {
	if raw == "" {
		return nil, models.NewUnauthenticatedError("Authorization required")
	}

	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return m.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return nil, models.NewUnauthenticatedError("Malformed token")
		}
		return nil, models.NewForbiddenError("Invalid or expired token")
	}
	if !tok.Valid {
		return nil, models.NewForbiddenError("Invalid or expired token")
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, models.NewForbiddenError("Invalid token claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, models.NewForbiddenError("Invalid subject claim")
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil || userID == 0 {
		return nil, models.NewForbiddenError("Invalid user ID in token")
	}

	username, _ := claims["username"].(string)

	return &Identity{UserID: uint(userID), Username: username}, nil
}
