package service

import (
	"log"
	"time"

	"cineconnect/internal/model"
	"cineconnect/internal/util"
	"cineconnect/internal/websocket"
)

// Activity event types pushed to clients.
const (
	ActivityFriendRequest  = "friend_request"
	ActivityFriendAccepted = "friend_accepted"
)

// ActivityEvent travels through RabbitMQ from the service that produced it to
// the worker that delivers it over WebSocket. Events are ephemeral; nothing
// is persisted.
type ActivityEvent struct {
	Type         string           `json:"type"`
	UserID       string           `json:"user_id"` // recipient
	Actor        model.PublicUser `json:"actor"`
	FriendshipID string           `json:"friendship_id,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}

type ActivityPublisher interface {
	FriendRequestSent(receiverID string, sender model.PublicUser, friendshipID string)
	FriendRequestAccepted(senderID string, receiver model.PublicUser, friendshipID string)
}

type activityPublisher struct {
	rabbitMQ *util.RabbitMQClient
	wsHub    *websocket.Hub
}

// NewActivityPublisher publishes activity events to RabbitMQ. When the broker
// is unavailable the event is pushed straight to the WebSocket hub instead,
// so realtime delivery degrades rather than disappears.
func NewActivityPublisher(rabbitMQ *util.RabbitMQClient, wsHub *websocket.Hub) ActivityPublisher {
	return &activityPublisher{rabbitMQ: rabbitMQ, wsHub: wsHub}
}

func (p *activityPublisher) FriendRequestSent(receiverID string, sender model.PublicUser, friendshipID string) {
	p.publish(ActivityEvent{
		Type:         ActivityFriendRequest,
		UserID:       receiverID,
		Actor:        sender,
		FriendshipID: friendshipID,
		CreatedAt:    time.Now(),
	})
}

func (p *activityPublisher) FriendRequestAccepted(senderID string, receiver model.PublicUser, friendshipID string) {
	p.publish(ActivityEvent{
		Type:         ActivityFriendAccepted,
		UserID:       senderID,
		Actor:        receiver,
		FriendshipID: friendshipID,
		CreatedAt:    time.Now(),
	})
}

func (p *activityPublisher) publish(event ActivityEvent) {
	if p.rabbitMQ != nil {
		if err := p.rabbitMQ.PublishJSON(util.ActivityRoutingKey, event); err == nil {
			return
		} else {
			log.Printf("Failed to publish activity event, falling back to direct push: %v", err)
		}
	}

	if p.wsHub != nil {
		p.wsHub.BroadcastToUser(event.UserID, event.Type, map[string]interface{}{
			"actor":         event.Actor,
			"friendship_id": event.FriendshipID,
			"created_at":    event.CreatedAt,
		})
	}
}
