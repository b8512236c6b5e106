package app

import (
	"net/http"
	"strconv"

	"cineconnect/internal/service"
	"cineconnect/internal/util"

	"github.com/gin-gonic/gin"
)

type FilmHandler struct {
	filmService service.FilmService
}

func NewFilmHandler(filmService service.FilmService) *FilmHandler {
	return &FilmHandler{filmService: filmService}
}

// GetFilm handles fetching a locally mirrored film
// GET /api/v1/films/:id
func (h *FilmHandler) GetFilm(c *gin.Context) {
	film, err := h.filmService.GetFilm(c.Param("id"))
	if err != nil {
		util.HandleError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Film retrieved successfully", gin.H{"film": film})
}

// GetByTmdbID mirrors the film locally on first reference
// GET /api/v1/films/tmdb/:tmdbID
func (h *FilmHandler) GetByTmdbID(c *gin.Context) {
	tmdbID, err := strconv.ParseInt(c.Param("tmdbID"), 10, 64)
	if err != nil || tmdbID < 1 {
		util.BadRequest(c, "Invalid TMDb id")
		return
	}

	film, err := h.filmService.GetOrFetchByTmdbID(c.Request.Context(), tmdbID)
	if err != nil {
		util.HandleError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Film retrieved successfully", gin.H{"film": film})
}

// Search proxies a catalog search to TMDb
// GET /api/v1/films/search?q=query&page=1
func (h *FilmHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		util.BadRequest(c, "Search query is required")
		return
	}

	result, err := h.filmService.Search(c.Request.Context(), query, parsePage(c))
	if err != nil {
		util.HandleError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Films retrieved successfully", result)
}

// Trending lists trending films for a time window
// GET /api/v1/films/trending?window=week&page=1
func (h *FilmHandler) Trending(c *gin.Context) {
	window := c.DefaultQuery("window", "week")
	if window != "day" && window != "week" {
		util.BadRequest(c, "Window must be 'day' or 'week'")
		return
	}

	result, err := h.filmService.Trending(c.Request.Context(), window, parsePage(c))
	if err != nil {
		util.HandleError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Films retrieved successfully", result)
}

// Popular lists popular films
// GET /api/v1/films/popular?page=1
func (h *FilmHandler) Popular(c *gin.Context) {
	result, err := h.filmService.Popular(c.Request.Context(), parsePage(c))
	if err != nil {
		util.HandleError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Films retrieved successfully", result)
}

func parsePage(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
