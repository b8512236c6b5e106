package websocket

import (
	"log"
	"sync"
)

// Event types relayed by the hub.
const (
	EventUserOnline  = "USER_ONLINE"
	EventUserOffline = "USER_OFFLINE"
	EventJoinRoom    = "JOIN_ROOM"
	EventLeaveRoom   = "LEAVE_ROOM"
	EventTyping      = "TYPING"
	EventChatMessage = "CHAT_MESSAGE"
)

// ConversationRoom derives the stable room identifier for a pair of users,
// independent of which side joins first.
func ConversationRoom(userID1, userID2 string) string {
	if userID1 < userID2 {
		return userID1 + ":" + userID2
	}
	return userID2 + ":" + userID1
}

// Hub maintains the set of active clients, the conversation rooms they have
// joined, and relays events between them. All state is per-process; a restart
// loses it and clients are expected to reconnect and refetch.
type Hub struct {
	// Registered clients by user ID
	clients map[string]map[*Client]bool

	// Conversation rooms by room ID
	rooms map[string]map[*Client]bool

	// Inbound messages from the clients
	broadcast chan *Message

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	mu sync.RWMutex

	// Callback for user presence changes (userID, online bool)
	onPresenceChange func(userID string, online bool)
}

// Message represents a WebSocket message
type Message struct {
	UserID  string                 `json:"user_id,omitempty"`
	Room    string                 `json:"room,omitempty"`
	Type    string                 `json:"type"`
	Payload map[string]interface{} `json:"payload"`
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		rooms:      make(map[string]map[*Client]bool),
		broadcast:  make(chan *Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// SetPresenceCallback sets a callback for when users come online/offline
func (h *Hub) SetPresenceCallback(cb func(userID string, online bool)) {
	h.onPresenceChange = cb
}

// GetOnlineUserIDs returns a list of all currently connected user IDs
func (h *Hub) GetOnlineUserIDs() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	ids := make([]string, 0, len(h.clients))
	for uid := range h.clients {
		ids = append(ids, uid)
	}
	return ids
}

// Run starts the hub
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			isNew := len(h.clients[client.UserID]) == 0
			if h.clients[client.UserID] == nil {
				h.clients[client.UserID] = make(map[*Client]bool)
			}
			h.clients[client.UserID][client] = true
			h.mu.Unlock()
			log.Printf("Client registered: UserID=%s", client.UserID)

			// Presence fires only on the first connection of a user
			if isNew {
				h.broadcastPresence(client.UserID, true)
				if h.onPresenceChange != nil {
					h.onPresenceChange(client.UserID, true)
				}
			}

		case client := <-h.unregister:
			h.mu.Lock()
			wasLast := false
			if clients, ok := h.clients[client.UserID]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					close(client.send)
					if len(clients) == 0 {
						delete(h.clients, client.UserID)
						wasLast = true
					}
				}
			}
			h.removeFromAllRooms(client)
			h.mu.Unlock()
			log.Printf("Client unregistered: UserID=%s", client.UserID)

			// Presence fires only when the last connection closes
			if wasLast {
				h.broadcastPresence(client.UserID, false)
				if h.onPresenceChange != nil {
					h.onPresenceChange(client.UserID, false)
				}
			}

		case message := <-h.broadcast:
			h.deliver(message)
		}
	}
}

func (h *Hub) deliver(message *Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	switch {
	case message.Room != "":
		// Relay to room members, excluding the originator
		for client := range h.rooms[message.Room] {
			if client.UserID == message.UserID {
				continue
			}
			h.send(message.Room, client, message)
		}
	case message.UserID != "":
		// Send to all connections of a specific user
		for client := range h.clients[message.UserID] {
			h.send(message.UserID, client, message)
		}
	default:
		// Broadcast to everyone
		for _, clients := range h.clients {
			for client := range clients {
				h.send("all", client, message)
			}
		}
	}
}

func (h *Hub) send(target string, client *Client, message *Message) {
	select {
	case client.send <- message:
	default:
		log.Printf("Send buffer full, dropping message for %s", target)
	}
}

// JoinRoom adds the client to a conversation room
func (h *Hub) JoinRoom(room string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]bool)
	}
	h.rooms[room][client] = true
}

// LeaveRoom removes the client from a conversation room
func (h *Hub) LeaveRoom(room string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeFromRoom(room, client)
}

func (h *Hub) removeFromRoom(room string, client *Client) {
	if clients, ok := h.rooms[room]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.rooms, room)
		}
	}
}

func (h *Hub) removeFromAllRooms(client *Client) {
	for room := range h.rooms {
		h.removeFromRoom(room, client)
	}
}

// BroadcastToUser sends an event to every connection of a specific user
func (h *Hub) BroadcastToUser(userID, eventType string, payload map[string]interface{}) {
	h.enqueue(&Message{
		UserID:  userID,
		Type:    eventType,
		Payload: payload,
	})
}

// BroadcastToRoom relays an event to the other members of a room.
// originUserID is excluded from delivery.
func (h *Hub) BroadcastToRoom(room, originUserID, eventType string, payload map[string]interface{}) {
	h.enqueue(&Message{
		UserID:  originUserID,
		Room:    room,
		Type:    eventType,
		Payload: payload,
	})
}

// BroadcastToAll sends a message to all connected clients
func (h *Hub) BroadcastToAll(eventType string, payload map[string]interface{}) {
	h.enqueue(&Message{
		Type:    eventType,
		Payload: payload,
	})
}

func (h *Hub) enqueue(message *Message) {
	select {
	case h.broadcast <- message:
	default:
		log.Printf("Broadcast channel full, dropping %s event", message.Type)
	}
}

// GetClientCount returns the number of connected clients for a user
func (h *Hub) GetClientCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

func (h *Hub) broadcastPresence(userID string, online bool) {
	eventType := EventUserOnline
	if !online {
		eventType = EventUserOffline
	}
	h.BroadcastToAll(eventType, map[string]interface{}{
		"user_id": userID,
		"online":  online,
	})
}
