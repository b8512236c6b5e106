package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Friendship struct {
	ID         string    `gorm:"type:uuid;primary_key" json:"id"`
	SenderID   string    `gorm:"type:uuid;not null;index" json:"sender_id"`
	ReceiverID string    `gorm:"type:uuid;not null;index" json:"receiver_id"`
	PairKey    string    `gorm:"type:varchar(80);not null;uniqueIndex" json:"-"`
	Status     string    `gorm:"type:varchar(20);default:'pending';not null" json:"status"` // pending, accepted, rejected
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Sender   User `gorm:"foreignKey:SenderID;references:ID;constraint:OnDelete:CASCADE" json:"sender,omitempty"`
	Receiver User `gorm:"foreignKey:ReceiverID;references:ID;constraint:OnDelete:CASCADE" json:"receiver,omitempty"`
}

// PairKey normalizes an unordered user pair to a stable key. The unique index
// on it guarantees at most one relationship row per pair regardless of which
// side sent the request.
func PairKey(userID1, userID2 string) string {
	if userID1 < userID2 {
		return userID1 + ":" + userID2
	}
	return userID2 + ":" + userID1
}

// BeforeCreate hook to generate UUID and the normalized pair key
func (f *Friendship) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	if f.PairKey == "" {
		f.PairKey = PairKey(f.SenderID, f.ReceiverID)
	}
	return nil
}

// TableName specifies the table name
func (Friendship) TableName() string {
	return "friendships"
}

// OtherParty returns the public summary of the participant that is not userID.
func (f *Friendship) OtherParty(userID string) PublicUser {
	if f.SenderID == userID {
		return f.Receiver.Public()
	}
	return f.Sender.Public()
}

// Friendship status constants
const (
	FriendshipStatusPending  = "pending"
	FriendshipStatusAccepted = "accepted"
	FriendshipStatusRejected = "rejected"
)
