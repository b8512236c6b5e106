package repository

import (
	"cineconnect/internal/model"

	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(review *model.Review) error
	FindByID(id string) (*model.Review, error)
	FindByUserAndFilm(userID, filmID string) (*model.Review, error)
	FindByFilmID(filmID string, limit, offset int) ([]*model.Review, error)
	FindByUserID(userID string, limit, offset int) ([]*model.Review, error)
	Update(review *model.Review) error
	Delete(id string) error

	CreateLike(like *model.ReviewLike) error
	FindLike(userID, reviewID string) (*model.ReviewLike, error)
	DeleteLike(userID, reviewID string) (int64, error)
	CountLikes(reviewID string) (int64, error)

	CreateComment(comment *model.ReviewComment) error
	FindCommentByID(id string) (*model.ReviewComment, error)
	FindCommentsByReviewID(reviewID string, limit, offset int) ([]*model.ReviewComment, error)
	DeleteComment(id string) error
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(review *model.Review) error {
	return r.db.Create(review).Error
}

func (r *reviewRepository) FindByID(id string) (*model.Review, error) {
	var review model.Review
	err := r.db.Preload("User").Preload("Film").Where("id = ?", id).First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) FindByUserAndFilm(userID, filmID string) (*model.Review, error) {
	var review model.Review
	err := r.db.Where("user_id = ? AND film_id = ?", userID, filmID).First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) FindByFilmID(filmID string, limit, offset int) ([]*model.Review, error) {
	var reviews []*model.Review
	err := r.db.Preload("User").
		Where("film_id = ?", filmID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) FindByUserID(userID string, limit, offset int) ([]*model.Review, error) {
	var reviews []*model.Review
	err := r.db.Preload("Film").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) Update(review *model.Review) error {
	return r.db.Save(review).Error
}

func (r *reviewRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&model.Review{}).Error
}

// Likes

func (r *reviewRepository) CreateLike(like *model.ReviewLike) error {
	return r.db.Create(like).Error
}

func (r *reviewRepository) FindLike(userID, reviewID string) (*model.ReviewLike, error) {
	var like model.ReviewLike
	err := r.db.Where("user_id = ? AND review_id = ?", userID, reviewID).First(&like).Error
	if err != nil {
		return nil, err
	}
	return &like, nil
}

func (r *reviewRepository) DeleteLike(userID, reviewID string) (int64, error) {
	result := r.db.Where("user_id = ? AND review_id = ?", userID, reviewID).Delete(&model.ReviewLike{})
	return result.RowsAffected, result.Error
}

func (r *reviewRepository) CountLikes(reviewID string) (int64, error) {
	var count int64
	err := r.db.Model(&model.ReviewLike{}).Where("review_id = ?", reviewID).Count(&count).Error
	return count, err
}

// Comments

func (r *reviewRepository) CreateComment(comment *model.ReviewComment) error {
	return r.db.Create(comment).Error
}

func (r *reviewRepository) FindCommentByID(id string) (*model.ReviewComment, error) {
	var comment model.ReviewComment
	err := r.db.Preload("User").Where("id = ?", id).First(&comment).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *reviewRepository) FindCommentsByReviewID(reviewID string, limit, offset int) ([]*model.ReviewComment, error) {
	var comments []*model.ReviewComment
	err := r.db.Preload("User").
		Where("review_id = ?", reviewID).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *reviewRepository) DeleteComment(id string) error {
	return r.db.Where("id = ?", id).Delete(&model.ReviewComment{}).Error
}
