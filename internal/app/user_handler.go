package app

import (
	"net/http"
	"strconv"

	"cineconnect/internal/service"
	"cineconnect/internal/util"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetUser handles fetching a user's public profile
// GET /api/v1/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userService.GetUser(c.Param("id"))
	if err != nil {
		util.HandleError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "User retrieved successfully", gin.H{"user": user.Public()})
}

// SearchUsers handles searching users by keyword
// GET /api/v1/users/search?q=keyword&limit=20&offset=0
func (h *UserHandler) SearchUsers(c *gin.Context) {
	keyword := c.Query("q")
	if keyword == "" {
		util.BadRequest(c, "Search keyword is required")
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	users, err := h.userService.SearchUsers(keyword, limit, offset)
	if err != nil {
		util.HandleError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Users retrieved successfully", gin.H{
		"users":  users,
		"limit":  limit,
		"offset": offset,
		"total":  len(users),
	})
}

// UpdateAvatar handles avatar upload for the authenticated user
// PUT /api/v1/users/me/avatar
func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	userID := c.GetString("userID")

	file, err := c.FormFile("avatar")
	if err != nil {
		util.BadRequest(c, "Avatar file is required")
		return
	}

	url, err := h.userService.UpdateAvatar(c.Request.Context(), userID, file)
	if err != nil {
		util.HandleError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Avatar updated successfully", gin.H{"avatar_url": url})
}
