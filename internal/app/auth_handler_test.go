package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cineconnect/internal/config"
	"cineconnect/internal/model"
	"cineconnect/internal/repository"
	"cineconnect/internal/service"
	"cineconnect/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:         "test-secret",
		AccessTokenTTL:    15 * time.Minute,
		RefreshTokenTTL:   7 * 24 * time.Hour,
		RefreshCookieName: "cineconnect_refresh",
	}
}

func setupAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}))

	cfg := testConfig()
	authService := service.NewAuthService(repository.NewUserRepository(db), nil, cfg)
	authHandler := NewAuthHandler(authService, cfg)

	r := gin.New()
	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", authHandler.Logout)
		auth.GET("/me", authHandler.AuthMiddleware(), authHandler.GetMe)
	}
	return r
}

func postJSON(r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	jsonBody, _ := json.Marshal(body)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", path, bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func registerBody(username string) map[string]string {
	return map[string]string{
		"email":    username + "@example.com",
		"username": username,
		"password": "correct-horse-battery",
	}
}

func refreshCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "cineconnect_refresh" {
			return cookie
		}
	}
	t.Fatal("refresh cookie not set")
	return nil
}

func TestRegisterEndpoint(t *testing.T) {
	r := setupAuthRouter(t)

	w := postJSON(r, "/api/v1/auth/register", registerBody("alice"))
	require.Equal(t, http.StatusCreated, w.Code)

	var resp util.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	assert.NotEmpty(t, data["access_token"])

	// The refresh token travels only in the httpOnly cookie
	_, hasRefresh := data["refresh_token"]
	assert.False(t, hasRefresh)

	cookie := refreshCookie(t, w)
	assert.True(t, cookie.HttpOnly)
	assert.NotEmpty(t, cookie.Value)
}

func TestRegisterEndpointValidation(t *testing.T) {
	r := setupAuthRouter(t)

	w := postJSON(r, "/api/v1/auth/register", map[string]string{
		"email":    "not-an-email",
		"username": "al",
		"password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterEndpointDuplicateEmail(t *testing.T) {
	r := setupAuthRouter(t)

	w := postJSON(r, "/api/v1/auth/register", registerBody("alice"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(r, "/api/v1/auth/register", registerBody("alice"))
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLoginEndpoint(t *testing.T) {
	r := setupAuthRouter(t)

	w := postJSON(r, "/api/v1/auth/register", registerBody("alice"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(r, "/api/v1/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "correct-horse-battery",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = postJSON(r, "/api/v1/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefreshEndpoint(t *testing.T) {
	r := setupAuthRouter(t)

	registered := postJSON(r, "/api/v1/auth/register", registerBody("alice"))
	require.Equal(t, http.StatusCreated, registered.Code)
	cookie := refreshCookie(t, registered)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/auth/refresh", nil)
	req.AddCookie(cookie)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// The cookie is rotated on every refresh
	rotated := refreshCookie(t, w)
	assert.NotEqual(t, cookie.Value, rotated.Value)
}

func TestRefreshEndpointWithoutCookie(t *testing.T) {
	r := setupAuthRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/auth/refresh", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutClearsCookie(t *testing.T) {
	r := setupAuthRouter(t)

	registered := postJSON(r, "/api/v1/auth/register", registerBody("alice"))
	cookie := refreshCookie(t, registered)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/auth/logout", nil)
	req.AddCookie(cookie)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	cleared := refreshCookie(t, w)
	assert.Empty(t, cleared.Value)
	assert.True(t, cleared.MaxAge < 0)
}

func TestGetMeRequiresToken(t *testing.T) {
	r := setupAuthRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/auth/me", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetMeWithToken(t *testing.T) {
	r := setupAuthRouter(t)

	registered := postJSON(r, "/api/v1/auth/register", registerBody("alice"))
	var resp util.Response
	require.NoError(t, json.Unmarshal(registered.Body.Bytes(), &resp))
	accessToken := resp.Data.(map[string]interface{})["access_token"].(string)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	user := resp.Data.(map[string]interface{})["user"].(map[string]interface{})
	assert.Equal(t, "alice", user["username"])
}

func TestRefreshRejectsAccessTokenCookie(t *testing.T) {
	r := setupAuthRouter(t)

	registered := postJSON(r, "/api/v1/auth/register", registerBody("alice"))
	var resp util.Response
	require.NoError(t, json.Unmarshal(registered.Body.Bytes(), &resp))
	accessToken := resp.Data.(map[string]interface{})["access_token"].(string)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: "cineconnect_refresh", Value: accessToken})
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}