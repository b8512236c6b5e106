package service

import (
	"fmt"

	"cineconnect/internal/apperr"
	"cineconnect/internal/config"
	"cineconnect/internal/model"
	"cineconnect/internal/repository"
	"cineconnect/internal/util"

	"golang.org/x/crypto/bcrypt"
)

const refreshTokenKeyPrefix = "refresh:"

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required,min=3,max=50,alphanum"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	User         *model.User `json:"user"`
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"-"` // delivered via httpOnly cookie only
}

type AuthService interface {
	Register(req RegisterRequest) (*AuthResponse, error)
	Login(req LoginRequest) (*AuthResponse, error)
	Refresh(refreshToken string) (*AuthResponse, error)
	Logout(refreshToken string) error
	GetMe(userID string) (*model.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	redis    *util.RedisClient
	cfg      *config.Config
}

func NewAuthService(userRepo repository.UserRepository, redis *util.RedisClient, cfg *config.Config) AuthService {
	return &authService{
		userRepo: userRepo,
		redis:    redis,
		cfg:      cfg,
	}
}

func (s *authService) Register(req RegisterRequest) (*AuthResponse, error) {
	if _, err := s.userRepo.FindByEmail(req.Email); err == nil {
		return nil, apperr.ErrEmailTaken
	}
	if _, err := s.userRepo.FindByUsername(req.Username); err == nil {
		return nil, apperr.ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issueTokens(user)
}

func (s *authService) Login(req LoginRequest) (*AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		return nil, apperr.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperr.ErrInvalidCredentials
	}

	return s.issueTokens(user)
}

// Refresh rotates the refresh token: the presented token's jti is revoked and
// a new pair is issued.
func (s *authService) Refresh(refreshToken string) (*AuthResponse, error) {
	claims, err := util.ValidateToken(refreshToken, s.cfg.JWTSecret)
	if err != nil {
		return nil, apperr.ErrInvalidToken
	}
	if claims.TokenType != util.TokenTypeRefresh {
		return nil, apperr.ErrInvalidToken
	}

	if s.redis != nil {
		exists, err := s.redis.Exists(refreshTokenKeyPrefix + claims.ID)
		if err == nil && !exists {
			return nil, apperr.ErrInvalidToken
		}
		s.redis.Delete(refreshTokenKeyPrefix + claims.ID)
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, apperr.ErrUserNotFound
	}

	return s.issueTokens(user)
}

func (s *authService) Logout(refreshToken string) error {
	claims, err := util.ValidateToken(refreshToken, s.cfg.JWTSecret)
	if err != nil {
		return nil // already invalid, nothing to revoke
	}
	if s.redis != nil {
		s.redis.Delete(refreshTokenKeyPrefix + claims.ID)
	}
	return nil
}

func (s *authService) GetMe(userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, apperr.ErrUserNotFound
	}
	return user, nil
}

func (s *authService) issueTokens(user *model.User) (*AuthResponse, error) {
	accessToken, err := util.GenerateAccessToken(user.ID, user.Email, user.Username, s.cfg.JWTSecret, s.cfg.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, jti, err := util.GenerateRefreshToken(user.ID, s.cfg.JWTSecret, s.cfg.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	if s.redis != nil {
		s.redis.Set(refreshTokenKeyPrefix+jti, user.ID, s.cfg.RefreshTokenTTL)
	}

	return &AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
