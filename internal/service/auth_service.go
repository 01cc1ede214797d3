// Package service implements the business logic between the HTTP layer and the stores.
package service

import (
	"context"

	"amicus/internal/models"
	"amicus/internal/repository"
	"amicus/internal/token"

	"golang.org/x/crypto/bcrypt"
)

// AuthService validates credentials and issues bearer tokens.
type AuthService struct {
	users  repository.UserRepository
	tokens *token.Manager
}

// LoginResult carries everything the client receives on a successful login.
type LoginResult struct {
	Token    string
	UserID   uint
	Username string
}

// NewAuthService returns a new AuthService.
func NewAuthService(users repository.UserRepository, tokens *token.Manager) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Register creates a new account and returns its id. Only the bcrypt hash of
// the password is ever stored; the plaintext is never persisted or logged.
// A taken username yields Conflict, enforced by the store's unique constraint.
func (s *AuthService) Register(ctx context.Context, username, rawPassword string) (uint, error) {
	if username == "" || rawPassword == "" {
		return 0, models.NewInvalidInputError("Username and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(rawPassword), bcrypt.DefaultCost)
	if err != nil {
		return 0, models.NewInternalError(err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return 0, err
	}

	return user.ID, nil
}

// Login checks the credentials and issues a signed, time-bounded token.
// Unknown usernames and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (*LoginResult, error) {
	if username == "" || rawPassword == "" {
		return nil, models.NewInvalidInputError("Username and password are required")
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(rawPassword)); err != nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}

	signed, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	return &LoginResult{
		Token:    signed,
		UserID:   user.ID,
		Username: user.Username,
	}, nil
}

// Verify resolves a raw bearer token to the identity it carries.
func (s *AuthService) Verify(raw string) (*token.Identity, error) {
	return s.tokens.Verify(raw)
}
