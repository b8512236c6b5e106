package repository

import (
	"cineconnect/internal/model"

	"gorm.io/gorm"
)

type WatchlistRepository interface {
	Create(item *model.WatchlistItem) error
	FindByUserAndFilm(userID, filmID string) (*model.WatchlistItem, error)
	FindByUserID(userID string, limit, offset int) ([]*model.WatchlistItem, error)
	DeleteByUserAndFilm(userID, filmID string) (int64, error)
}

type watchlistRepository struct {
	db *gorm.DB
}

func NewWatchlistRepository(db *gorm.DB) WatchlistRepository {
	return &watchlistRepository{db: db}
}

func (r *watchlistRepository) Create(item *model.WatchlistItem) error {
	return r.db.Create(item).Error
}

func (r *watchlistRepository) FindByUserAndFilm(userID, filmID string) (*model.WatchlistItem, error) {
	var item model.WatchlistItem
	err := r.db.Preload("Film").
		Where("user_id = ? AND film_id = ?", userID, filmID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *watchlistRepository) FindByUserID(userID string, limit, offset int) ([]*model.WatchlistItem, error) {
	var items []*model.WatchlistItem
	err := r.db.Preload("Film").
		Where("user_id = ?", userID).
		Order("added_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *watchlistRepository) DeleteByUserAndFilm(userID, filmID string) (int64, error) {
	result := r.db.Where("user_id = ? AND film_id = ?", userID, filmID).Delete(&model.WatchlistItem{})
	return result.RowsAffected, result.Error
}
