package app

import (
	"net/http"

	"cineconnect/internal/service"
	"cineconnect/internal/util"

	"github.com/gin-gonic/gin"
)

type FriendshipHandler struct {
	friendshipService service.FriendshipService
}

func NewFriendshipHandler(friendshipService service.FriendshipService) *FriendshipHandler {
	return &FriendshipHandler{friendshipService: friendshipService}
}

// FriendRequestBody addresses the receiver by id or by username.
type FriendRequestBody struct {
	ReceiverID       string `json:"receiver_id"`
	ReceiverUsername string `json:"receiver_username"`
}

// SendRequest handles sending a friend request
// POST /api/v1/friends/requests
func (h *FriendshipHandler) SendRequest(c *gin.Context) {
	var req FriendRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BindError(c, err)
		return
	}
	if req.ReceiverID == "" && req.ReceiverUsername == "" {
		util.BadRequest(c, "receiver_id or receiver_username is required")
		return
	}

	friendship, err := h.friendshipService.SendRequest(c.GetString("userID"), req.ReceiverID, req.ReceiverUsername)
	if err != nil {
		util.HandleError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusCreated, "Friend request sent", gin.H{"request": friendship})
}

// RespondToRequest handles accepting or rejecting an incoming request
// PUT /api/v1/friends/requests/:id
func (h *FriendshipHandler) RespondToRequest(c *gin.Context) {
	var req struct {
		Accept *bool `json:"accept" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BindError(c, err)
		return
	}

	friendship, err := h.friendshipService.RespondToRequest(c.Param("id"), c.GetString("userID"), *req.Accept)
	if err != nil {
		util.HandleError(c, err)
		return
	}

	message := "Friend request rejected"
	if *req.Accept {
		message = "Friend request accepted"
	}
	util.SuccessResponse(c, http.StatusOK, message, gin.H{"friendship": friendship})
}

// RemoveFriend handles unfriending or withdrawing a request
// DELETE /api/v1/friends/:id
func (h *FriendshipHandler) RemoveFriend(c *gin.Context) {
	if err := h.friendshipService.RemoveFriend(c.Param("id"), c.GetString("userID")); err != nil {
		util.HandleError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Friend removed", nil)
}

// ListFriends handles listing the caller's accepted friendships
// GET /api/v1/friends
func (h *FriendshipHandler) ListFriends(c *gin.Context) {
	friends, err := h.friendshipService.ListFriends(c.GetString("userID"))
	if err != nil {
		util.HandleError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Friends retrieved", gin.H{
		"friends": friends,
		"total":   len(friends),
	})
}

// ListPendingRequests handles listing incoming pending requests
// GET /api/v1/friends/requests
func (h *FriendshipHandler) ListPendingRequests(c *gin.Context) {
	requests, err := h.friendshipService.ListPendingRequests(c.GetString("userID"))
	if err != nil {
		util.HandleError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Pending requests retrieved", gin.H{
		"requests": requests,
		"total":    len(requests),
	})
}

// GetStatus reports the relationship with another user
// GET /api/v1/friends/status/:userID
func (h *FriendshipHandler) GetStatus(c *gin.Context) {
	status, err := h.friendshipService.GetStatus(c.GetString("userID"), c.Param("userID"))
	if err != nil {
		util.HandleError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Status retrieved", gin.H{"status": status})
}
