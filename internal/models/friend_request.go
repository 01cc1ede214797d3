package models

import "time"

// FriendRequestStatus represents the state of a friend request.
type FriendRequestStatus string

const (
	// FriendRequestStatusPending is the initial, only non-terminal state.
	FriendRequestStatusPending FriendRequestStatus = "pending"
	// FriendRequestStatusAccepted is a terminal state set by the recipient.
	FriendRequestStatusAccepted FriendRequestStatus = "accepted"
	// FriendRequestStatusRejected is a terminal state set by the recipient.
	// A rejected pair may send a fresh request later.
	FriendRequestStatusRejected FriendRequestStatus = "rejected"
)

// Valid reports whether s is one of the known states.
func (s FriendRequestStatus) Valid() bool {
	switch s {
	case FriendRequestStatusPending, FriendRequestStatusAccepted, FriendRequestStatusRejected:
		return true
	}
	return false
}

// Terminal reports whether s is a resolved state.
func (s FriendRequestStatus) Terminal() bool {
	return s == FriendRequestStatusAccepted || s == FriendRequestStatusRejected
}

// FriendRequest represents a friend request from one user to another.
// Status transitions only pending -> accepted or pending -> rejected, each at
// most once, and only at the hand of ToUserID. Records are never deleted.
type FriendRequest struct {
	ID         uint                `gorm:"primaryKey" json:"id"`
	FromUserID uint                `gorm:"not null;index:idx_friend_requests_from" json:"from_user_id"`
	ToUserID   uint                `gorm:"not null;index:idx_friend_requests_to" json:"to_user_id"`
	Status     FriendRequestStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`

	// Relationships
	FromUser User `gorm:"foreignKey:FromUserID" json:"from_user,omitempty"`
	ToUser   User `gorm:"foreignKey:ToUserID" json:"to_user,omitempty"`
}

// TableName specifies the table name for GORM
func (FriendRequest) TableName() string {
	return "friend_requests"
}

// ReceivedFriendRequest is a pending request as shown to its recipient,
// joined with the sender's username.
type ReceivedFriendRequest struct {
	ID           uint                `json:"id"`
	FromUserID   uint                `json:"from_user_id"`
	FromUsername string              `json:"from_username"`
	Status       FriendRequestStatus `json:"status"`
}
