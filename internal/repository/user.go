// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"strings"

	"amicus/internal/cache"
	"amicus/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	ListDiscoverable(ctx context.Context, userID uint) ([]models.PublicUser, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts the user. The unique constraint on username is the sole
// guard against duplicate-username races; a violation maps to Conflict.
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("This username is already in use")
		}
		return models.NewInternalError(err)
	}
	return nil
}

// GetByID loads a user, served cache-aside through Redis. Users are immutable
// after registration, so cached entries never need invalidation.
func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User

	err := cache.Aside(ctx, cache.UserKey(id), &user, cache.UserTTL, func() error {
		if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername returns (nil, nil) when no such user exists; the caller
// decides whether absence is an error.
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

// ListDiscoverable returns every user the given user may still send a friend
// request to: everyone except the user itself and except counterparts of a
// pending or accepted request in either direction. Rejected counterparts
// remain discoverable.
func (r *userRepository) ListDiscoverable(ctx context.Context, userID uint) ([]models.PublicUser, error) {
	var users []models.PublicUser
	if err := r.db.WithContext(ctx).
		Table("users").
		Select("users.id, users.username").
		Where("users.id <> ?", userID).
		Where(`users.id NOT IN (
			SELECT CASE WHEN from_user_id = ? THEN to_user_id ELSE from_user_id END
			FROM friend_requests
			WHERE (from_user_id = ? OR to_user_id = ?)
			  AND status IN ('pending', 'accepted')
		)`, userID, userID, userID).
		Order("users.id").
		Scan(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL unique violation SQLSTATE 23505
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}
