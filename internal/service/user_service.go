package service

import (
	"context"
	"fmt"
	"mime/multipart"

	"cineconnect/internal/apperr"
	"cineconnect/internal/model"
	"cineconnect/internal/repository"
	"cineconnect/internal/util"
)

type UserService interface {
	GetUser(id string) (*model.User, error)
	SearchUsers(keyword string, limit, offset int) ([]model.PublicUser, error)
	UpdateAvatar(ctx context.Context, userID string, file *multipart.FileHeader) (string, error)
}

type userService struct {
	userRepo   repository.UserRepository
	cloudinary *util.CloudinaryClient
}

func NewUserService(userRepo repository.UserRepository, cloudinary *util.CloudinaryClient) UserService {
	return &userService{
		userRepo:   userRepo,
		cloudinary: cloudinary,
	}
}

func (s *userService) GetUser(id string) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, apperr.ErrUserNotFound
	}
	return user, nil
}

func (s *userService) SearchUsers(keyword string, limit, offset int) ([]model.PublicUser, error) {
	users, err := s.userRepo.SearchUsers(keyword, clampLimit(limit), offset)
	if err != nil {
		return nil, err
	}

	results := make([]model.PublicUser, 0, len(users))
	for i := range users {
		results = append(results, users[i].Public())
	}
	return results, nil
}

// UpdateAvatar uploads the image to Cloudinary and stores the delivery URL.
func (s *userService) UpdateAvatar(ctx context.Context, userID string, file *multipart.FileHeader) (string, error) {
	if s.cloudinary == nil {
		return "", fmt.Errorf("image uploads are disabled")
	}

	if _, err := s.userRepo.FindByID(userID); err != nil {
		return "", apperr.ErrUserNotFound
	}

	url, err := s.cloudinary.UploadAvatar(ctx, file)
	if err != nil {
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}

	if err := s.userRepo.UpdateAvatar(userID, url); err != nil {
		return "", fmt.Errorf("failed to store avatar url: %w", err)
	}

	return url, nil
}
