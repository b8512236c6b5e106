package service

import (
	"fmt"

	"cineconnect/internal/apperr"
	"cineconnect/internal/model"
	"cineconnect/internal/repository"
)

type ReviewService interface {
	CreateReview(userID, filmID string, rating int, comment *string) (*model.Review, error)
	UpdateReview(reviewID, userID string, rating int, comment *string) (*model.Review, error)
	DeleteReview(reviewID, userID string) error
	GetReview(reviewID string) (*model.Review, error)
	ListByFilm(filmID string, limit, offset int) ([]*model.Review, error)
	ListByUser(userID string, limit, offset int) ([]*model.Review, error)

	LikeReview(userID, reviewID string) error
	UnlikeReview(userID, reviewID string) error

	AddComment(userID, reviewID, content string) (*model.ReviewComment, error)
	ListComments(reviewID string, limit, offset int) ([]*model.ReviewComment, error)
	DeleteComment(commentID, userID string) error
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	filmRepo   repository.FilmRepository
	userRepo   repository.UserRepository
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	filmRepo repository.FilmRepository,
	userRepo repository.UserRepository,
) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		filmRepo:   filmRepo,
		userRepo:   userRepo,
	}
}

// CreateReview creates a review. A user gets at most one review per film; the
// duplicate check is backed by the composite unique index.
func (s *reviewService) CreateReview(userID, filmID string, rating int, comment *string) (*model.Review, error) {
	if rating < model.RatingMin || rating > model.RatingMax {
		return nil, apperr.ErrInvalidRating
	}

	if _, err := s.filmRepo.FindByID(filmID); err != nil {
		return nil, apperr.ErrFilmNotFound
	}

	if existing, err := s.reviewRepo.FindByUserAndFilm(userID, filmID); err == nil && existing != nil {
		return nil, apperr.ErrAlreadyReviewed
	}

	review := &model.Review{
		UserID:  userID,
		FilmID:  filmID,
		Rating:  rating,
		Comment: comment,
	}
	if err := s.reviewRepo.Create(review); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	return s.reviewRepo.FindByID(review.ID)
}

func (s *reviewService) UpdateReview(reviewID, userID string, rating int, comment *string) (*model.Review, error) {
	review, err := s.reviewRepo.FindByID(reviewID)
	if err != nil {
		return nil, apperr.ErrReviewNotFound
	}
	if review.UserID != userID {
		return nil, apperr.ErrForbidden
	}
	if rating < model.RatingMin || rating > model.RatingMax {
		return nil, apperr.ErrInvalidRating
	}

	review.Rating = rating
	review.Comment = comment
	if err := s.reviewRepo.Update(review); err != nil {
		return nil, fmt.Errorf("failed to update review: %w", err)
	}

	return s.reviewRepo.FindByID(review.ID)
}

func (s *reviewService) DeleteReview(reviewID, userID string) error {
	review, err := s.reviewRepo.FindByID(reviewID)
	if err != nil {
		return apperr.ErrReviewNotFound
	}
	if review.UserID != userID {
		return apperr.ErrForbidden
	}
	return s.reviewRepo.Delete(reviewID)
}

func (s *reviewService) GetReview(reviewID string) (*model.Review, error) {
	review, err := s.reviewRepo.FindByID(reviewID)
	if err != nil {
		return nil, apperr.ErrReviewNotFound
	}
	s.fillLikeCount(review)
	return review, nil
}

func (s *reviewService) ListByFilm(filmID string, limit, offset int) ([]*model.Review, error) {
	reviews, err := s.reviewRepo.FindByFilmID(filmID, clampLimit(limit), offset)
	if err != nil {
		return nil, err
	}
	for _, review := range reviews {
		s.fillLikeCount(review)
	}
	return reviews, nil
}

func (s *reviewService) ListByUser(userID string, limit, offset int) ([]*model.Review, error) {
	reviews, err := s.reviewRepo.FindByUserID(userID, clampLimit(limit), offset)
	if err != nil {
		return nil, err
	}
	for _, review := range reviews {
		s.fillLikeCount(review)
	}
	return reviews, nil
}

// Likes

func (s *reviewService) LikeReview(userID, reviewID string) error {
	if _, err := s.reviewRepo.FindByID(reviewID); err != nil {
		return apperr.ErrReviewNotFound
	}
	if existing, err := s.reviewRepo.FindLike(userID, reviewID); err == nil && existing != nil {
		return apperr.ErrAlreadyLiked
	}

	like := &model.ReviewLike{UserID: userID, ReviewID: reviewID}
	if err := s.reviewRepo.CreateLike(like); err != nil {
		return fmt.Errorf("failed to like review: %w", err)
	}
	return nil
}

func (s *reviewService) UnlikeReview(userID, reviewID string) error {
	affected, err := s.reviewRepo.DeleteLike(userID, reviewID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// Comments

func (s *reviewService) AddComment(userID, reviewID, content string) (*model.ReviewComment, error) {
	if content == "" || len([]rune(content)) > model.ReviewCommentMaxLen {
		return nil, apperr.ErrInvalidContent
	}
	if _, err := s.reviewRepo.FindByID(reviewID); err != nil {
		return nil, apperr.ErrReviewNotFound
	}

	comment := &model.ReviewComment{
		UserID:   userID,
		ReviewID: reviewID,
		Content:  content,
	}
	if err := s.reviewRepo.CreateComment(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	return s.reviewRepo.FindCommentByID(comment.ID)
}

func (s *reviewService) ListComments(reviewID string, limit, offset int) ([]*model.ReviewComment, error) {
	return s.reviewRepo.FindCommentsByReviewID(reviewID, clampLimit(limit), offset)
}

func (s *reviewService) DeleteComment(commentID, userID string) error {
	comment, err := s.reviewRepo.FindCommentByID(commentID)
	if err != nil {
		return apperr.ErrCommentNotFound
	}
	if comment.UserID != userID {
		return apperr.ErrForbidden
	}
	return s.reviewRepo.DeleteComment(commentID)
}

func (s *reviewService) fillLikeCount(review *model.Review) {
	if count, err := s.reviewRepo.CountLikes(review.ID); err == nil {
		review.LikeCount = count
	}
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultPageSize
	}
	if limit > maxPageSize {
		return maxPageSize
	}
	return limit
}
