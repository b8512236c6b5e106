package websocket

import (
	"log"

	"cineconnect/internal/util"
)

const presenceKey = "presence:online"

// RedisPresence mirrors the hub's in-memory presence map into a shared Redis
// set, so other processes (or a future second instance) can answer "who is
// online" without talking to this hub.
type RedisPresence struct {
	redis *util.RedisClient
}

func NewRedisPresence(redis *util.RedisClient) *RedisPresence {
	return &RedisPresence{redis: redis}
}

// Attach registers the presence callback on the hub.
func (p *RedisPresence) Attach(hub *Hub) {
	if p.redis == nil {
		return
	}

	// Stale members from a previous run would report ghosts as online.
	if err := p.redis.Delete(presenceKey); err != nil {
		log.Printf("Failed to reset presence set: %v", err)
	}

	hub.SetPresenceCallback(func(userID string, online bool) {
		var err error
		if online {
			err = p.redis.SAdd(presenceKey, userID)
		} else {
			err = p.redis.SRem(presenceKey, userID)
		}
		if err != nil {
			log.Printf("Failed to update presence for %s: %v", userID, err)
		}
	})
}

// OnlineUserIDs returns the user ids currently marked online.
func (p *RedisPresence) OnlineUserIDs() ([]string, error) {
	if p.redis == nil {
		return nil, nil
	}
	return p.redis.SMembers(presenceKey)
}

// IsOnline reports whether a user has at least one live connection.
func (p *RedisPresence) IsOnline(userID string) (bool, error) {
	if p.redis == nil {
		return false, nil
	}
	return p.redis.SIsMember(presenceKey, userID)
}
