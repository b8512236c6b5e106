package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"cineconnect/internal/model"
	"cineconnect/internal/util"

	"gorm.io/gorm"
)

type FriendshipRepository interface {
	Create(friendship *model.Friendship) error
	FindByID(id string) (*model.Friendship, error)
	FindByPair(userID1, userID2 string) (*model.Friendship, error)
	FindPendingByReceiverID(receiverID string) ([]*model.Friendship, error)
	FindAcceptedByUserID(userID string) ([]*model.Friendship, error)
	Update(friendship *model.Friendship) error
	Delete(id string) error
}

type friendshipRepository struct {
	db    *gorm.DB
	redis *util.RedisClient
}

const (
	friendshipCachePrefix         = "friendship:"
	friendshipPendingCachePrefix  = "friendship:pending:"
	friendshipAcceptedCachePrefix = "friendship:accepted:"
	friendshipCacheExpiration     = 15 * time.Minute
)

func NewFriendshipRepository(db *gorm.DB, redis *util.RedisClient) FriendshipRepository {
	return &friendshipRepository{
		db:    db,
		redis: redis,
	}
}

// Create inserts a new friendship row. The unique pair_key index rejects a
// concurrent duplicate for the same unordered pair.
func (r *friendshipRepository) Create(friendship *model.Friendship) error {
	if err := r.db.Create(friendship).Error; err != nil {
		return err
	}

	r.invalidateParties(friendship)
	return nil
}

// FindByID finds a friendship by ID
func (r *friendshipRepository) FindByID(id string) (*model.Friendship, error) {
	if r.redis != nil {
		cached, err := r.getFromCache(friendshipCachePrefix + id)
		if err == nil && cached != nil {
			return cached, nil
		}
	}

	var friendship model.Friendship
	err := r.db.Preload("Sender").Preload("Receiver").
		Where("id = ?", id).First(&friendship).Error
	if err != nil {
		return nil, err
	}

	if r.redis != nil {
		if data, err := json.Marshal(&friendship); err == nil {
			r.redis.Set(friendshipCachePrefix+friendship.ID, string(data), friendshipCacheExpiration)
		}
	}

	return &friendship, nil
}

// FindByPair finds the relationship row between two users in either direction
func (r *friendshipRepository) FindByPair(userID1, userID2 string) (*model.Friendship, error) {
	var friendship model.Friendship
	err := r.db.Preload("Sender").Preload("Receiver").
		Where("pair_key = ?", model.PairKey(userID1, userID2)).
		First(&friendship).Error
	if err != nil {
		return nil, err
	}
	return &friendship, nil
}

// FindPendingByReceiverID finds pending friendship requests for a user
func (r *friendshipRepository) FindPendingByReceiverID(receiverID string) ([]*model.Friendship, error) {
	if r.redis != nil {
		cached, err := r.getListFromCache(friendshipPendingCachePrefix + receiverID)
		if err == nil && cached != nil {
			return cached, nil
		}
	}

	var friendships []*model.Friendship
	err := r.db.Preload("Sender").Preload("Receiver").
		Where("receiver_id = ? AND status = ?", receiverID, model.FriendshipStatusPending).
		Order("created_at DESC").
		Find(&friendships).Error
	if err != nil {
		return nil, err
	}

	r.cacheList(friendshipPendingCachePrefix+receiverID, friendships)
	return friendships, nil
}

// FindAcceptedByUserID finds accepted friendships for a user
func (r *friendshipRepository) FindAcceptedByUserID(userID string) ([]*model.Friendship, error) {
	if r.redis != nil {
		cached, err := r.getListFromCache(friendshipAcceptedCachePrefix + userID)
		if err == nil && cached != nil {
			return cached, nil
		}
	}

	var friendships []*model.Friendship
	err := r.db.Preload("Sender").Preload("Receiver").
		Where("(sender_id = ? OR receiver_id = ?) AND status = ?", userID, userID, model.FriendshipStatusAccepted).
		Order("updated_at DESC").
		Find(&friendships).Error
	if err != nil {
		return nil, err
	}

	r.cacheList(friendshipAcceptedCachePrefix+userID, friendships)
	return friendships, nil
}

// Update updates a friendship
func (r *friendshipRepository) Update(friendship *model.Friendship) error {
	if err := r.db.Save(friendship).Error; err != nil {
		return err
	}

	r.invalidateParties(friendship)
	return nil
}

// Delete deletes a friendship
func (r *friendshipRepository) Delete(id string) error {
	var friendship model.Friendship
	if err := r.db.Where("id = ?", id).First(&friendship).Error; err != nil {
		return err
	}

	if err := r.db.Delete(&friendship).Error; err != nil {
		return err
	}

	r.invalidateParties(&friendship)
	return nil
}

// Cache helpers

func (r *friendshipRepository) cacheList(key string, friendships []*model.Friendship) {
	if r.redis == nil {
		return
	}

	data, err := json.Marshal(friendships)
	if err != nil {
		return
	}
	r.redis.Set(key, string(data), friendshipCacheExpiration)
}

func (r *friendshipRepository) getFromCache(key string) (*model.Friendship, error) {
	if r.redis == nil {
		return nil, fmt.Errorf("redis not available")
	}

	cached, err := r.redis.Get(key)
	if err != nil {
		return nil, err
	}

	var friendship model.Friendship
	if err := json.Unmarshal([]byte(cached), &friendship); err != nil {
		return nil, err
	}
	return &friendship, nil
}

func (r *friendshipRepository) getListFromCache(key string) ([]*model.Friendship, error) {
	if r.redis == nil {
		return nil, fmt.Errorf("redis not available")
	}

	cached, err := r.redis.Get(key)
	if err != nil {
		return nil, err
	}

	var friendships []*model.Friendship
	if err := json.Unmarshal([]byte(cached), &friendships); err != nil {
		return nil, err
	}
	return friendships, nil
}

func (r *friendshipRepository) invalidateParties(friendship *model.Friendship) {
	if r.redis == nil {
		return
	}
	r.redis.Delete(friendshipCachePrefix + friendship.ID)
	r.redis.Delete(friendshipPendingCachePrefix + friendship.ReceiverID)
	r.redis.Delete(friendshipAcceptedCachePrefix + friendship.SenderID)
	r.redis.Delete(friendshipAcceptedCachePrefix + friendship.ReceiverID)
}
