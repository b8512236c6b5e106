package app

import (
	"net/http"

	"cineconnect/internal/service"
	"cineconnect/internal/util"

	"github.com/gin-gonic/gin"
)

type WatchlistHandler struct {
	watchlistService service.WatchlistService
}

func NewWatchlistHandler(watchlistService service.WatchlistService) *WatchlistHandler {
	return &WatchlistHandler{watchlistService: watchlistService}
}

// Add handles adding a film to the caller's watchlist
// POST /api/v1/watchlist
func (h *WatchlistHandler) Add(c *gin.Context) {
	var req struct {
		FilmID string `json:"film_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BindError(c, err)
		return
	}

	item, err := h.watchlistService.Add(c.GetString("userID"), req.FilmID)
	if err != nil {
		util.HandleError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusCreated, "Film added to watchlist", gin.H{"item": item})
}

// Remove handles removing a film from the caller's watchlist
// DELETE /api/v1/watchlist/:filmID
func (h *WatchlistHandler) Remove(c *gin.Context) {
	if err := h.watchlistService.Remove(c.GetString("userID"), c.Param("filmID")); err != nil {
		util.HandleError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Film removed from watchlist", nil)
}

// List handles listing the caller's watchlist
// GET /api/v1/watchlist?limit=50&offset=0
func (h *WatchlistHandler) List(c *gin.Context) {
	limit, offset := parseLimitOffset(c)

	items, err := h.watchlistService.List(c.GetString("userID"), limit, offset)
	if err != nil {
		util.HandleError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Watchlist retrieved", gin.H{
		"items": items,
		"total": len(items),
	})
}

// Contains reports whether a film is on the caller's watchlist
// GET /api/v1/watchlist/:filmID
func (h *WatchlistHandler) Contains(c *gin.Context) {
	contained, err := h.watchlistService.Contains(c.GetString("userID"), c.Param("filmID"))
	if err != nil {
		util.HandleError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Watchlist checked", gin.H{"in_watchlist": contained})
}
