package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"amicus/internal/models"
	"amicus/internal/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// stubUserRepo lets each test plug in just the behaviour it needs.
type stubUserRepo struct {
	createFn           func(ctx context.Context, user *models.User) error
	getByIDFn          func(ctx context.Context, id uint) (*models.User, error)
	getByUsernameFn    func(ctx context.Context, username string) (*models.User, error)
	listDiscoverableFn func(ctx context.Context, userID uint) ([]models.PublicUser, error)
}

func (s *stubUserRepo) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}

func (s *stubUserRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}

func (s *stubUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}

func (s *stubUserRepo) ListDiscoverable(ctx context.Context, userID uint) ([]models.PublicUser, error) {
	return s.listDiscoverableFn(ctx, userID)
}

func testTokens() *token.Manager {
	return token.NewManager("auth-service-test-secret", time.Hour)
}

func requireAppCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %#v", err)
	assert.Equal(t, code, appErr.Code)
}

func TestRegisterSuccess(t *testing.T) {
	var stored *models.User
	repo := &stubUserRepo{
		createFn: func(_ context.Context, user *models.User) error {
			user.ID = 7
			stored = user
			return nil
		},
	}
	svc := NewAuthService(repo, testTokens())

	id, err := svc.Register(context.Background(), "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, uint(7), id)

	require.NotNil(t, stored)
	assert.Equal(t, "alice", stored.Username)
	assert.NotEqual(t, "s3cret", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("s3cret")))
}

func TestRegisterMissingFields(t *testing.T) {
	svc := NewAuthService(&stubUserRepo{}, testTokens())

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"missing username", "", "s3cret"},
		{"missing password", "alice", ""},
		{"missing both", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.username, tc.password)
			requireAppCode(t, err, models.CodeInvalidInput)
		})
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	repo := &stubUserRepo{
		createFn: func(_ context.Context, _ *models.User) error {
			return models.NewConflictError("This username is already in use")
		},
	}
	svc := NewAuthService(repo, testTokens())

	_, err := svc.Register(context.Background(), "alice", "s3cret")
	requireAppCode(t, err, models.CodeConflict)
}

func TestLoginSuccess(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.DefaultCost)
	require.NoError(t, err)

	repo := &stubUserRepo{
		getByUsernameFn: func(_ context.Context, username string) (*models.User, error) {
			assert.Equal(t, "alice", username)
			return &models.User{ID: 7, Username: "alice", PasswordHash: string(hash)}, nil
		},
	}
	tokens := testTokens()
	svc := NewAuthService(repo, tokens)

	result, err := svc.Login(context.Background(), "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, uint(7), result.UserID)
	assert.Equal(t, "alice", result.Username)

	identity, err := tokens.Verify(result.Token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), identity.UserID)
	assert.Equal(t, "alice", identity.Username)
}

func TestLoginUnknownUser(t *testing.T) {
	repo := &stubUserRepo{
		getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) {
			return nil, nil
		},
	}
	svc := NewAuthService(repo, testTokens())

	_, err := svc.Login(context.Background(), "ghost", "s3cret")
	requireAppCode(t, err, models.CodeUnauthorized)
}

func TestLoginWrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.DefaultCost)
	require.NoError(t, err)

	repo := &stubUserRepo{
		getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) {
			return &models.User{ID: 7, Username: "alice", PasswordHash: string(hash)}, nil
		},
	}
	svc := NewAuthService(repo, testTokens())

	_, err = svc.Login(context.Background(), "alice", "wrong")
	requireAppCode(t, err, models.CodeUnauthorized)
}

func TestLoginMissingFields(t *testing.T) {
	svc := NewAuthService(&stubUserRepo{}, testTokens())

	_, err := svc.Login(context.Background(), "", "s3cret")
	requireAppCode(t, err, models.CodeInvalidInput)

	_, err = svc.Login(context.Background(), "alice", "")
	requireAppCode(t, err, models.CodeInvalidInput)
}
