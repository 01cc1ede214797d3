package token

import (
	"errors"
	"testing"
	"time"

	"amicus/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-for-token-tests"

func appCode(t *testing.T, err error) string {
	t.Helper()
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %#v", err)
	return appErr.Code
}

func TestIssueAndVerify(t *testing.T) {
	m := NewManager(testSecret, time.Hour)

	signed, err := m.Issue(42, "alice")
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	identity, err := m.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, uint(42), identity.UserID)
	assert.Equal(t, "alice", identity.Username)
}

func TestVerifyMissingToken(t *testing.T) {
	m := NewManager(testSecret, time.Hour)

	_, err := m.Verify("")
	require.Error(t, err)
	assert.Equal(t, models.CodeUnauthenticated, appCode(t, err))
}

func TestVerifyMalformedToken(t *testing.T) {
	m := NewManager(testSecret, time.Hour)

	_, err := m.Verify("not-a-jwt")
	require.Error(t, err)
	assert.Equal(t, models.CodeUnauthenticated, appCode(t, err))
}

func TestVerifyTamperedToken(t *testing.T) {
	m := NewManager(testSecret, time.Hour)
	other := NewManager("a-completely-different-secret", time.Hour)

	signed, err := other.Issue(42, "alice")
	require.NoError(t, err)

	_, err = m.Verify(signed)
	require.Error(t, err)
	assert.Equal(t, models.CodeForbidden, appCode(t, err))
}

func TestVerifyExpiredToken(t *testing.T) {
	m := NewManager(testSecret, time.Nanosecond)

	signed, err := m.Issue(42, "alice")
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	_, err = m.Verify(signed)
	require.Error(t, err)
	assert.Equal(t, models.CodeForbidden, appCode(t, err))
}

func TestVerifyWrongIssuer(t *testing.T) {
	m := NewManager(testSecret, time.Hour)

	// Signed with the right secret but minted by some other service.
	now := time.Now()
	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      "42",
		"username": "alice",
		"iss":      "some-other-api",
		"iat":      now.Unix(),
		"exp":      now.Add(time.Hour).Unix(),
	})
	signed, err := foreign.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = m.Verify(signed)
	require.Error(t, err)
	assert.Equal(t, models.CodeForbidden, appCode(t, err))
}

func TestVerifyMissingExpiry(t *testing.T) {
	m := NewManager(testSecret, time.Hour)

	unbounded := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      "42",
		"username": "alice",
		"iss":      issuer,
		"iat":      time.Now().Unix(),
	})
	signed, err := unbounded.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = m.Verify(signed)
	require.Error(t, err)
	assert.Equal(t, models.CodeForbidden, appCode(t, err))
}

func TestDefaultTTLFallback(t *testing.T) {
	m := NewManager(testSecret, 0)
	assert.Equal(t, DefaultTTL, m.ttl)
}
