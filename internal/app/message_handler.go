package app

import (
	"net/http"
	"strconv"

	"cineconnect/internal/service"
	"cineconnect/internal/util"
	"cineconnect/internal/websocket"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	messageService service.MessageService
	wsHub          *websocket.Hub
}

func NewMessageHandler(messageService service.MessageService, wsHub *websocket.Hub) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
		wsHub:          wsHub,
	}
}

// SendMessageRequest is the request body for sending a direct message
type SendMessageRequest struct {
	ReceiverID string `json:"receiver_id" binding:"required"`
	Content    string `json:"content" binding:"required"`
}

// SendMessage persists a direct message and pushes it to the recipient
// POST /api/v1/messages
func (h *MessageHandler) SendMessage(c *gin.Context) {
	userID := c.GetString("userID")

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BindError(c, err)
		return
	}

	msg, err := h.messageService.SendMessage(userID, req.ReceiverID, req.Content)
	if err != nil {
		util.HandleError(c, err)
		return
	}

	// Delivery over the socket is best effort; the message is already stored.
	if h.wsHub != nil {
		h.wsHub.BroadcastToUser(req.ReceiverID, websocket.EventChatMessage, map[string]interface{}{
			"id":          msg.ID,
			"sender_id":   msg.SenderID,
			"receiver_id": msg.ReceiverID,
			"content":     msg.Content,
			"created_at":  msg.CreatedAt,
			"sender":      msg.Sender.Public(),
		})
	}

	util.SuccessResponse(c, http.StatusCreated, "Message sent", gin.H{"message": msg})
}

// ListConversations returns one entry per chat partner with the latest
// message and unread count
// GET /api/v1/messages/conversations
func (h *MessageHandler) ListConversations(c *gin.Context) {
	conversations, err := h.messageService.ListConversations(c.GetString("userID"))
	if err != nil {
		util.HandleError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Conversations retrieved", gin.H{
		"conversations": conversations,
		"total":         len(conversations),
	})
}

// ListMessages returns a page of the conversation with another user and
// marks their messages as read
// GET /api/v1/messages/with/:userID?page=1&pageSize=50
func (h *MessageHandler) ListMessages(c *gin.Context) {
	userID := c.GetString("userID")
	otherUserID := c.Param("userID")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "50"))

	messages, err := h.messageService.ListMessages(userID, otherUserID, page, pageSize)
	if err != nil {
		util.HandleError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Conversation retrieved", gin.H{
		"messages": messages,
		"page":     page,
	})
}

// MarkAsRead marks all messages from a sender as read
// PUT /api/v1/messages/read/:senderID
func (h *MessageHandler) MarkAsRead(c *gin.Context) {
	userID := c.GetString("userID")

	senderID := c.Param("senderID")
	if senderID == "" {
		util.BadRequest(c, "sender id is required")
		return
	}

	if err := h.messageService.MarkAsRead(userID, senderID); err != nil {
		util.HandleError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Messages marked as read", nil)
}

// GetUnreadCount returns the total number of unread messages
// GET /api/v1/messages/unread/count
func (h *MessageHandler) GetUnreadCount(c *gin.Context) {
	count, err := h.messageService.GetUnreadCount(c.GetString("userID"))
	if err != nil {
		util.HandleError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Unread count retrieved", gin.H{"count": count})
}
