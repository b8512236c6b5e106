package service

import (
	"cineconnect/internal/apperr"
	"cineconnect/internal/model"
	"cineconnect/internal/repository"
)

// MessageContentMaxLen bounds the length of a direct message.
const MessageContentMaxLen = 2000

const (
	defaultPageSize = 50
	maxPageSize     = 100
)

type MessageService interface {
	SendMessage(senderID, receiverID, content string) (*model.Message, error)
	ListConversations(userID string) ([]model.Conversation, error)
	ListMessages(userID, otherUserID string, page, pageSize int) ([]*model.Message, error)
	MarkAsRead(userID, senderID string) error
	GetUnreadCount(userID string) (int64, error)
}

type messageService struct {
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
}

func NewMessageService(
	messageRepo repository.MessageRepository,
	userRepo repository.UserRepository,
) MessageService {
	return &messageService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
	}
}

func (s *messageService) SendMessage(senderID, receiverID, content string) (*model.Message, error) {
	if senderID == receiverID {
		return nil, apperr.ErrSelfMessage
	}
	if content == "" || len([]rune(content)) > MessageContentMaxLen {
		return nil, apperr.ErrInvalidContent
	}
	if _, err := s.userRepo.FindByID(receiverID); err != nil {
		return nil, apperr.ErrReceiverNotFound
	}

	msg := &model.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
	}
	if err := s.messageRepo.Create(msg); err != nil {
		return nil, err
	}
	return s.messageRepo.FindByID(msg.ID)
}

// ListConversations groups messages by the other participant, pairing the
// most recent message with the unread count. Both are computed by querying,
// not maintained incrementally.
func (s *messageService) ListConversations(userID string) ([]model.Conversation, error) {
	latest, err := s.messageRepo.FindLatestPerPartner(userID)
	if err != nil {
		return nil, err
	}

	unread, err := s.messageRepo.GetUnreadCountBySenders(userID)
	if err != nil {
		return nil, err
	}

	conversations := make([]model.Conversation, 0, len(latest))
	for _, msg := range latest {
		partner := msg.Sender
		if msg.SenderID == userID {
			partner = msg.Receiver
		}
		conversations = append(conversations, model.Conversation{
			Partner:     partner.Public(),
			LastMessage: msg,
			UnreadCount: unread[partner.ID],
		})
	}
	return conversations, nil
}

// ListMessages returns a page of the conversation. Messages sent to the
// caller by the partner are flipped to read before the page is fetched, so
// the returned rows already carry the new read state.
func (s *messageService) ListMessages(userID, otherUserID string, page, pageSize int) ([]*model.Message, error) {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	if page < 1 {
		page = 1
	}

	if err := s.messageRepo.MarkAsRead(userID, otherUserID); err != nil {
		return nil, err
	}

	return s.messageRepo.GetConversation(userID, otherUserID, pageSize, (page-1)*pageSize)
}

func (s *messageService) MarkAsRead(userID, senderID string) error {
	return s.messageRepo.MarkAsRead(userID, senderID)
}

func (s *messageService) GetUnreadCount(userID string) (int64, error) {
	return s.messageRepo.GetUnreadCount(userID)
}
