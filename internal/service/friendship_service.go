package service

import (
	"errors"
	"fmt"
	"time"

	"cineconnect/internal/apperr"
	"cineconnect/internal/model"
	"cineconnect/internal/repository"

	"gorm.io/gorm"
)

type FriendshipService interface {
	SendRequest(senderID, receiverID, receiverUsername string) (*model.Friendship, error)
	RespondToRequest(requestID, userID string, accept bool) (*model.Friendship, error)
	RemoveFriend(friendshipID, userID string) error
	ListFriends(userID string) ([]FriendSummary, error)
	ListPendingRequests(receiverID string) ([]PendingRequest, error)
	GetStatus(userID, otherUserID string) (string, error)
}

// FriendSummary projects an accepted relationship to the other party.
type FriendSummary struct {
	FriendshipID string           `json:"friendship_id"`
	Friend       model.PublicUser `json:"friend"`
	Since        time.Time        `json:"since"`
}

// PendingRequest projects an incoming pending request to its sender.
type PendingRequest struct {
	RequestID string           `json:"request_id"`
	Sender    model.PublicUser `json:"sender"`
	SentAt    time.Time        `json:"sent_at"`
}

type friendshipService struct {
	friendshipRepo repository.FriendshipRepository
	userRepo       repository.UserRepository
	activity       ActivityPublisher
}

func NewFriendshipService(
	friendshipRepo repository.FriendshipRepository,
	userRepo repository.UserRepository,
	activity ActivityPublisher,
) FriendshipService {
	return &friendshipService{
		friendshipRepo: friendshipRepo,
		userRepo:       userRepo,
		activity:       activity,
	}
}

// SendRequest sends a friend request. The receiver may be addressed by id or
// by username; exactly one of receiverID/receiverUsername must be set.
func (s *friendshipService) SendRequest(senderID, receiverID, receiverUsername string) (*model.Friendship, error) {
	sender, err := s.userRepo.FindByID(senderID)
	if err != nil {
		return nil, apperr.ErrUserNotFound
	}

	receiver, err := s.resolveReceiver(receiverID, receiverUsername)
	if err != nil {
		return nil, err
	}

	if sender.ID == receiver.ID {
		return nil, apperr.ErrSelfRequest
	}

	existing, err := s.friendshipRepo.FindByPair(sender.ID, receiver.ID)
	if err == nil && existing != nil {
		switch existing.Status {
		case model.FriendshipStatusAccepted:
			return nil, apperr.ErrAlreadyFriends
		case model.FriendshipStatusPending:
			return nil, apperr.ErrRequestPending
		case model.FriendshipStatusRejected:
			// A rejected pair can be retried. The unique pair index allows
			// only one row, so the dead row makes way for the new request.
			if err := s.friendshipRepo.Delete(existing.ID); err != nil {
				return nil, fmt.Errorf("failed to replace rejected request: %w", err)
			}
		}
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	friendship := &model.Friendship{
		SenderID:   sender.ID,
		ReceiverID: receiver.ID,
		Status:     model.FriendshipStatusPending,
	}

	if err := s.friendshipRepo.Create(friendship); err != nil {
		return nil, fmt.Errorf("failed to create friendship request: %w", err)
	}

	if s.activity != nil {
		go s.activity.FriendRequestSent(receiver.ID, sender.Public(), friendship.ID)
	}

	return s.friendshipRepo.FindByID(friendship.ID)
}

// RespondToRequest accepts or rejects a pending request. Only the receiver
// may respond; the sender cannot accept their own request.
func (s *friendshipService) RespondToRequest(requestID, userID string, accept bool) (*model.Friendship, error) {
	friendship, err := s.friendshipRepo.FindByID(requestID)
	if err != nil {
		return nil, apperr.ErrRequestNotFound
	}

	if friendship.ReceiverID != userID {
		return nil, apperr.ErrForbidden
	}

	if friendship.Status != model.FriendshipStatusPending {
		return nil, apperr.ErrAlreadyResponded
	}

	if accept {
		friendship.Status = model.FriendshipStatusAccepted
	} else {
		friendship.Status = model.FriendshipStatusRejected
	}

	if err := s.friendshipRepo.Update(friendship); err != nil {
		return nil, fmt.Errorf("failed to respond to friendship request: %w", err)
	}

	if accept && s.activity != nil {
		go func() {
			receiver, err := s.userRepo.FindByID(friendship.ReceiverID)
			if err == nil {
				s.activity.FriendRequestAccepted(friendship.SenderID, receiver.Public(), friendship.ID)
			}
		}()
	}

	return s.friendshipRepo.FindByID(friendship.ID)
}

// RemoveFriend deletes the relationship row regardless of status, so it also
// cancels a still-pending outgoing request.
func (s *friendshipService) RemoveFriend(friendshipID, userID string) error {
	friendship, err := s.friendshipRepo.FindByID(friendshipID)
	if err != nil {
		return apperr.ErrNotFound
	}

	if friendship.SenderID != userID && friendship.ReceiverID != userID {
		return apperr.ErrForbidden
	}

	if err := s.friendshipRepo.Delete(friendshipID); err != nil {
		return fmt.Errorf("failed to remove friendship: %w", err)
	}

	return nil
}

// ListFriends returns accepted relationships projected to the other party,
// with the row's updated_at as the "friends since" timestamp.
func (s *friendshipService) ListFriends(userID string) ([]FriendSummary, error) {
	friendships, err := s.friendshipRepo.FindAcceptedByUserID(userID)
	if err != nil {
		return nil, err
	}

	friends := make([]FriendSummary, 0, len(friendships))
	for _, f := range friendships {
		friends = append(friends, FriendSummary{
			FriendshipID: f.ID,
			Friend:       f.OtherParty(userID),
			Since:        f.UpdatedAt,
		})
	}
	return friends, nil
}

// ListPendingRequests returns incoming pending requests projected to their senders.
func (s *friendshipService) ListPendingRequests(receiverID string) ([]PendingRequest, error) {
	friendships, err := s.friendshipRepo.FindPendingByReceiverID(receiverID)
	if err != nil {
		return nil, err
	}

	requests := make([]PendingRequest, 0, len(friendships))
	for _, f := range friendships {
		requests = append(requests, PendingRequest{
			RequestID: f.ID,
			Sender:    f.Sender.Public(),
			SentAt:    f.CreatedAt,
		})
	}
	return requests, nil
}

// GetStatus returns the relationship status between two users, or "none".
func (s *friendshipService) GetStatus(userID, otherUserID string) (string, error) {
	friendship, err := s.friendshipRepo.FindByPair(userID, otherUserID)
	if err != nil {
		return "none", nil
	}
	return friendship.Status, nil
}

func (s *friendshipService) resolveReceiver(receiverID, receiverUsername string) (*model.User, error) {
	if receiverID != "" {
		receiver, err := s.userRepo.FindByID(receiverID)
		if err != nil {
			return nil, apperr.ErrUserNotFound
		}
		return receiver, nil
	}
	if receiverUsername != "" {
		receiver, err := s.userRepo.FindByUsername(receiverUsername)
		if err != nil {
			return nil, apperr.ErrUserNotFound
		}
		return receiver, nil
	}
	return nil, apperr.ErrUserNotFound
}
