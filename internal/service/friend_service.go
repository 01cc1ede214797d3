package service

import (
	"context"

	"amicus/internal/models"
	"amicus/internal/repository"
)

// FriendService implements the friend-request state machine and its queries.
type FriendService struct {
	requests repository.FriendRequestRepository
	users    repository.UserRepository
}

// NewFriendService returns a new FriendService.
func NewFriendService(requests repository.FriendRequestRepository, users repository.UserRepository) *FriendService {
	return &FriendService{requests: requests, users: users}
}

// SendRequest creates a pending friend request and returns its id.
// A pending or accepted record between the pair, in either direction, blocks
// a new one with Conflict. A rejected record does not block a fresh request.
func (s *FriendService) SendRequest(ctx context.Context, fromUserID, toUserID uint) (uint, error) {
	if toUserID == 0 {
		return 0, models.NewInvalidInputError("Recipient user ID is required")
	}
	if fromUserID == toUserID {
		return 0, models.NewInvalidInputError("You cannot send a friend request to yourself")
	}

	if _, err := s.users.GetByID(ctx, toUserID); err != nil {
		return 0, err
	}

	active, err := s.requests.ExistsActiveBetween(ctx, fromUserID, toUserID)
	if err != nil {
		return 0, err
	}
	if active {
		return 0, models.NewConflictError("A friend request or friendship already exists between you")
	}

	request := &models.FriendRequest{
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		Status:     models.FriendRequestStatusPending,
	}
	if err := s.requests.Create(ctx, request); err != nil {
		return 0, err
	}

	return request.ID, nil
}

// ListReceived returns the pending requests addressed to the user, oldest first.
func (s *FriendService) ListReceived(ctx context.Context, userID uint) ([]models.ReceivedFriendRequest, error) {
	return s.requests.ListReceived(ctx, userID)
}

// Respond resolves a pending request. Only the recipient may respond, each
// request resolves exactly once, and concurrent responders are serialized by
// the store's conditional update; every failed guard is reported as NotFound
// so callers cannot probe requests addressed to others.
func (s *FriendService) Respond(ctx context.Context, requestID, actingUserID uint, decision models.FriendRequestStatus) error {
	if !decision.Terminal() {
		return models.NewInvalidInputError("Status must be accepted or rejected")
	}

	resolved, err := s.requests.Resolve(ctx, requestID, actingUserID, decision)
	if err != nil {
		return err
	}
	if !resolved {
		return models.NewNotFoundError("Pending friend request", requestID)
	}
	return nil
}

// ListDiscoverable returns the users the given user may still send a request to.
func (s *FriendService) ListDiscoverable(ctx context.Context, userID uint) ([]models.PublicUser, error) {
	return s.users.ListDiscoverable(ctx, userID)
}
