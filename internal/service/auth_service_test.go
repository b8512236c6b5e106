package service

import (
	"testing"
	"time"

	"cineconnect/internal/apperr"
	"cineconnect/internal/config"
	"cineconnect/internal/repository"
	"cineconnect/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testAuthConfig() *config.Config {
	return &config.Config{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	}
}

func newAuthService(db *gorm.DB) AuthService {
	return NewAuthService(repository.NewUserRepository(db), nil, testAuthConfig())
}

func TestRegister(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(db)

	resp, err := svc.Register(RegisterRequest{
		Email:    "alice@example.com",
		Username: "alice",
		Password: "correct-horse-battery",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "alice", resp.User.Username)

	// The password never leaves as plaintext
	assert.NotEqual(t, "correct-horse-battery", resp.User.PasswordHash)

	claims, err := util.ValidateToken(resp.AccessToken, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, util.TokenTypeAccess, claims.TokenType)
	assert.Equal(t, resp.User.ID, claims.UserID)
}

func TestRegisterDuplicate(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(db)

	_, err := svc.Register(RegisterRequest{
		Email:    "alice@example.com",
		Username: "alice",
		Password: "correct-horse-battery",
	})
	require.NoError(t, err)

	_, err = svc.Register(RegisterRequest{
		Email:    "alice@example.com",
		Username: "alice2",
		Password: "correct-horse-battery",
	})
	assert.ErrorIs(t, err, apperr.ErrEmailTaken)

	_, err = svc.Register(RegisterRequest{
		Email:    "alice2@example.com",
		Username: "alice",
		Password: "correct-horse-battery",
	})
	assert.ErrorIs(t, err, apperr.ErrUsernameTaken)
}

func TestLogin(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(db)

	_, err := svc.Register(RegisterRequest{
		Email:    "alice@example.com",
		Username: "alice",
		Password: "correct-horse-battery",
	})
	require.NoError(t, err)

	resp, err := svc.Login(LoginRequest{Email: "alice@example.com", Password: "correct-horse-battery"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	_, err = svc.Login(LoginRequest{Email: "alice@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)

	// Unknown accounts fail the same way as bad passwords
	_, err = svc.Login(LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
}

func TestRefresh(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(db)

	registered, err := svc.Register(RegisterRequest{
		Email:    "alice@example.com",
		Username: "alice",
		Password: "correct-horse-battery",
	})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(registered.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, registered.User.ID, refreshed.User.ID)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(db)

	registered, err := svc.Register(RegisterRequest{
		Email:    "alice@example.com",
		Username: "alice",
		Password: "correct-horse-battery",
	})
	require.NoError(t, err)

	// An access token cannot be used in place of a refresh token
	_, err = svc.Refresh(registered.AccessToken)
	assert.ErrorIs(t, err, apperr.ErrInvalidToken)

	_, err = svc.Refresh("not-a-token")
	assert.ErrorIs(t, err, apperr.ErrInvalidToken)
}

func TestGetMe(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(db)

	registered, err := svc.Register(RegisterRequest{
		Email:    "alice@example.com",
		Username: "alice",
		Password: "correct-horse-battery",
	})
	require.NoError(t, err)

	user, err := svc.GetMe(registered.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	_, err = svc.GetMe("00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, apperr.ErrUserNotFound)
}
