package repository

import (
	"cineconnect/internal/model"

	"gorm.io/gorm"
)

type MessageRepository interface {
	Create(msg *model.Message) error
	FindByID(id string) (*model.Message, error)
	GetConversation(userID, otherUserID string, limit, offset int) ([]*model.Message, error)
	MarkAsRead(receiverID, senderID string) error
	GetUnreadCount(userID string) (int64, error)
	GetUnreadCountBySenders(userID string) (map[string]int64, error)
	FindLatestPerPartner(userID string) ([]*model.Message, error)
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(msg *model.Message) error {
	return r.db.Create(msg).Error
}

func (r *messageRepository) FindByID(id string) (*model.Message, error) {
	var msg model.Message
	err := r.db.Preload("Sender").Preload("Receiver").Where("id = ?", id).First(&msg).Error
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// GetConversation returns a page of the dialog between two users, oldest
// first within the page.
func (r *messageRepository) GetConversation(userID, otherUserID string, limit, offset int) ([]*model.Message, error) {
	var messages []*model.Message
	err := r.db.Preload("Sender").Preload("Receiver").
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userID, otherUserID, otherUserID, userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (r *messageRepository) MarkAsRead(receiverID, senderID string) error {
	return r.db.Model(&model.Message{}).
		Where("receiver_id = ? AND sender_id = ? AND is_read = ?", receiverID, senderID, false).
		Update("is_read", true).Error
}

func (r *messageRepository) GetUnreadCount(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Message{}).
		Where("receiver_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *messageRepository) GetUnreadCountBySenders(userID string) (map[string]int64, error) {
	var rows []struct {
		SenderID string
		Count    int64
	}
	err := r.db.Model(&model.Message{}).
		Select("sender_id, COUNT(*) as count").
		Where("receiver_id = ? AND is_read = ?", userID, false).
		Group("sender_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.SenderID] = row.Count
	}
	return counts, nil
}

// FindLatestPerPartner returns the most recent message of every dialog the
// user participates in, newest dialog first. The fold over the ordered result
// set keeps the first row seen per partner.
func (r *messageRepository) FindLatestPerPartner(userID string) ([]*model.Message, error) {
	var messages []*model.Message
	err := r.db.Preload("Sender").Preload("Receiver").
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	latest := make([]*model.Message, 0)
	for _, msg := range messages {
		partnerID := msg.SenderID
		if partnerID == userID {
			partnerID = msg.ReceiverID
		}
		if seen[partnerID] {
			continue
		}
		seen[partnerID] = true
		latest = append(latest, msg)
	}
	return latest, nil
}
