package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message is a direct message between two users. sender != receiver is
// enforced at the service layer, not the schema.
type Message struct {
	ID         string    `gorm:"type:uuid;primary_key" json:"id"`
	SenderID   string    `gorm:"type:uuid;not null;index" json:"sender_id"`
	ReceiverID string    `gorm:"type:uuid;not null;index" json:"receiver_id"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	IsRead     bool      `gorm:"default:false" json:"is_read"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	Sender   User `gorm:"foreignKey:SenderID;references:ID;constraint:OnDelete:CASCADE" json:"sender,omitempty"`
	Receiver User `gorm:"foreignKey:ReceiverID;references:ID;constraint:OnDelete:CASCADE" json:"receiver,omitempty"`
}

// BeforeCreate hook
func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (Message) TableName() string {
	return "messages"
}

// Conversation is the per-partner aggregate returned by the conversation
// list: the other participant, the most recent message and the unread count.
type Conversation struct {
	Partner     PublicUser `json:"partner"`
	LastMessage *Message   `json:"last_message,omitempty"`
	UnreadCount int64      `json:"unread_count"`
}
