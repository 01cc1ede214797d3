package repository

import (
	"context"
	"errors"

	"amicus/internal/models"

	"gorm.io/gorm"
)

// FriendRequestRepository defines persistence operations for friend requests.
type FriendRequestRepository interface {
	Create(ctx context.Context, request *models.FriendRequest) error
	GetByID(ctx context.Context, id uint) (*models.FriendRequest, error)
	ExistsActiveBetween(ctx context.Context, userID1, userID2 uint) (bool, error)
	ListReceived(ctx context.Context, userID uint) ([]models.ReceivedFriendRequest, error)
	Resolve(ctx context.Context, requestID, recipientID uint, status models.FriendRequestStatus) (bool, error)
}

type friendRequestRepository struct {
	db *gorm.DB
}

// NewFriendRequestRepository returns a new FriendRequestRepository implementation.
func NewFriendRequestRepository(db *gorm.DB) FriendRequestRepository {
	return &friendRequestRepository{db: db}
}

func (r *friendRequestRepository) Create(ctx context.Context, request *models.FriendRequest) error {
	if err := r.db.WithContext(ctx).Create(request).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *friendRequestRepository) GetByID(ctx context.Context, id uint) (*models.FriendRequest, error) {
	var request models.FriendRequest
	if err := r.db.WithContext(ctx).First(&request, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Friend request", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &request, nil
}

// ExistsActiveBetween reports whether a pending or accepted request exists
// between the pair, in either direction. Rejected records do not count.
func (r *friendRequestRepository) ExistsActiveBetween(ctx context.Context, userID1, userID2 uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.FriendRequest{}).
		Where("(from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ?)",
			userID1, userID2, userID2, userID1).
		Where("status IN ?", []models.FriendRequestStatus{
			models.FriendRequestStatusPending,
			models.FriendRequestStatusAccepted,
		}).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// ListReceived returns the pending requests addressed to the user, joined
// with the sender's username, in insertion order.
func (r *friendRequestRepository) ListReceived(ctx context.Context, userID uint) ([]models.ReceivedFriendRequest, error) {
	var requests []models.ReceivedFriendRequest
	if err := r.db.WithContext(ctx).
		Table("friend_requests").
		Select("friend_requests.id, friend_requests.from_user_id, users.username AS from_username, friend_requests.status").
		Joins("JOIN users ON users.id = friend_requests.from_user_id").
		Where("friend_requests.to_user_id = ? AND friend_requests.status = ?",
			userID, models.FriendRequestStatusPending).
		Order("friend_requests.id").
		Scan(&requests).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return requests, nil
}

// Resolve performs the pending -> terminal transition as a single conditional
// update. The WHERE guard makes concurrent responders race-safe: exactly one
// attempt flips the row, every other one sees zero rows affected. False means
// no such request, already resolved, or recipientID is not the addressee.
func (r *friendRequestRepository) Resolve(ctx context.Context, requestID, recipientID uint, status models.FriendRequestStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.FriendRequest{}).
		Where("id = ? AND to_user_id = ? AND status = ?",
			requestID, recipientID, models.FriendRequestStatusPending).
		Update("status", status)
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}
