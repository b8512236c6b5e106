package app

import (
	"net/http"
	"strconv"

	"cineconnect/internal/service"
	"cineconnect/internal/util"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	reviewService service.ReviewService
}

func NewReviewHandler(reviewService service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

type reviewRequest struct {
	FilmID  string  `json:"film_id" binding:"required"`
	Rating  int     `json:"rating" binding:"required"`
	Comment *string `json:"comment"`
}

type reviewUpdateRequest struct {
	Rating  int     `json:"rating" binding:"required"`
	Comment *string `json:"comment"`
}

// CreateReview handles creating a review for a film
// POST /api/v1/reviews
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BindError(c, err)
		return
	}

	review, err := h.reviewService.CreateReview(c.GetString("userID"), req.FilmID, req.Rating, req.Comment)
	if err != nil {
		util.HandleError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusCreated, "Review created successfully", gin.H{"review": review})
}

// GetReview handles fetching a single review
// GET /api/v1/reviews/:id
func (h *ReviewHandler) GetReview(c *gin.Context) {
	review, err := h.reviewService.GetReview(c.Param("id"))
	if err != nil {
		util.HandleError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Review retrieved successfully", gin.H{"review": review})
}

// UpdateReview handles editing the caller's review
// PUT /api/v1/reviews/:id
func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	var req reviewUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BindError(c, err)
		return
	}

	review, err := h.reviewService.UpdateReview(c.Param("id"), c.GetString("userID"), req.Rating, req.Comment)
	if err != nil {
		util.HandleError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Review updated successfully", gin.H{"review": review})
}

// DeleteReview handles deleting the caller's review
// DELETE /api/v1/reviews/:id
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	if err := h.reviewService.DeleteReview(c.Param("id"), c.GetString("userID")); err != nil {
		util.HandleError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Review deleted successfully", nil)
}

// ListByFilm handles listing reviews for a film
// GET /api/v1/films/:id/reviews?limit=50&offset=0
func (h *ReviewHandler) ListByFilm(c *gin.Context) {
	limit, offset := parseLimitOffset(c)

	reviews, err := h.reviewService.ListByFilm(c.Param("id"), limit, offset)
	if err != nil {
		util.HandleError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Reviews retrieved successfully", gin.H{
		"reviews": reviews,
		"total":   len(reviews),
	})
}

// ListByUser handles listing a user's reviews
// GET /api/v1/users/:id/reviews?limit=50&offset=0
func (h *ReviewHandler) ListByUser(c *gin.Context) {
	limit, offset := parseLimitOffset(c)

	reviews, err := h.reviewService.ListByUser(c.Param("id"), limit, offset)
	if err != nil {
		util.HandleError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Reviews retrieved successfully", gin.H{
		"reviews": reviews,
		"total":   len(reviews),
	})
}

// LikeReview handles liking a review
// POST /api/v1/reviews/:id/like
func (h *ReviewHandler) LikeReview(c *gin.Context) {
	if err := h.reviewService.LikeReview(c.GetString("userID"), c.Param("id")); err != nil {
		util.HandleError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusCreated, "Review liked successfully", nil)
}

// UnlikeReview handles removing the caller's like
// DELETE /api/v1/reviews/:id/like
func (h *ReviewHandler) UnlikeReview(c *gin.Context) {
	if err := h.reviewService.UnlikeReview(c.GetString("userID"), c.Param("id")); err != nil {
		util.HandleError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Review unliked successfully", nil)
}

// AddComment handles commenting on a review
// POST /api/v1/reviews/:id/comments
func (h *ReviewHandler) AddComment(c *gin.Context) {
	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BindError(c, err)
		return
	}

	comment, err := h.reviewService.AddComment(c.GetString("userID"), c.Param("id"), req.Content)
	if err != nil {
		util.HandleError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusCreated, "Comment added successfully", gin.H{"comment": comment})
}

// ListComments handles listing a review's comments
// GET /api/v1/reviews/:id/comments?limit=50&offset=0
func (h *ReviewHandler) ListComments(c *gin.Context) {
	limit, offset := parseLimitOffset(c)

	comments, err := h.reviewService.ListComments(c.Param("id"), limit, offset)
	if err != nil {
		util.HandleError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Comments retrieved successfully", gin.H{
		"comments": comments,
		"total":    len(comments),
	})
}

// DeleteComment handles deleting the caller's comment
// DELETE /api/v1/reviews/comments/:commentID
func (h *ReviewHandler) DeleteComment(c *gin.Context) {
	if err := h.reviewService.DeleteComment(c.Param("commentID"), c.GetString("userID")); err != nil {
		util.HandleError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Comment deleted successfully", nil)
}

func parseLimitOffset(c *gin.Context) (int, int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 {
		limit = 50
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}
