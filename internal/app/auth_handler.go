package app

import (
	"net/http"
	"strings"

	"cineconnect/internal/config"
	"cineconnect/internal/service"
	"cineconnect/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService service.AuthService
	cfg         *config.Config
}

func NewAuthHandler(authService service.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cfg:         cfg,
	}
}

// Register handles user registration
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BindError(c, err)
		return
	}

	resp, err := h.authService.Register(req)
	if err != nil {
		util.HandleError(c, err)
		return
	}

	h.setRefreshCookie(c, resp.RefreshToken)
	util.SuccessResponse(c, http.StatusCreated, "Registration successful", resp)
}

// Login handles user login
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BindError(c, err)
		return
	}

	resp, err := h.authService.Login(req)
	if err != nil {
		util.HandleError(c, err)
		return
	}

	h.setRefreshCookie(c, resp.RefreshToken)
	util.SuccessResponse(c, http.StatusOK, "Login successful", resp)
}

// Refresh rotates the refresh token pair
// POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(h.cfg.RefreshCookieName)
	if err != nil || refreshToken == "" {
		util.Unauthorized(c, "Refresh token missing")
		return
	}

	resp, err := h.authService.Refresh(refreshToken)
	if err != nil {
		h.clearRefreshCookie(c)
		util.HandleError(c, err)
		return
	}

	h.setRefreshCookie(c, resp.RefreshToken)
	util.SuccessResponse(c, http.StatusOK, "Token refreshed successfully", resp)
}

// Logout revokes the refresh token and clears the cookie
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if refreshToken, err := c.Cookie(h.cfg.RefreshCookieName); err == nil && refreshToken != "" {
		if err := h.authService.Logout(refreshToken); err != nil {
			util.HandleError(c, err)
			return
		}
	}

	h.clearRefreshCookie(c)
	util.SuccessResponse(c, http.StatusOK, "Logged out successfully", nil)
}

// GetMe handles getting current user info
// GET /api/v1/auth/me
func (h *AuthHandler) GetMe(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		util.Unauthorized(c, "User not authenticated")
		return
	}

	user, err := h.authService.GetMe(userID.(string))
	if err != nil {
		util.HandleError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "User retrieved successfully", gin.H{"user": user})
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		h.cfg.RefreshCookieName,
		token,
		int(h.cfg.RefreshTokenTTL.Seconds()),
		"/api/v1/auth",
		"",
		false,
		true, // httpOnly: never readable from scripts
	)
}

func (h *AuthHandler) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.RefreshCookieName, "", -1, "/api/v1/auth", "", false, true)
}

// AuthMiddleware validates the access token and stores the caller identity
// in the request context.
func (h *AuthHandler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			util.Unauthorized(c, "Authorization header required")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			util.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := util.ValidateToken(parts[1], h.cfg.JWTSecret)
		if err != nil || claims.TokenType != util.TokenTypeAccess {
			util.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("username", claims.Username)
		c.Next()
	}
}
