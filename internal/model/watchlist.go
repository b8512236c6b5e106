package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WatchlistItem struct {
	ID      string    `gorm:"type:uuid;primary_key" json:"id"`
	UserID  string    `gorm:"type:uuid;not null;index:idx_user_film_watchlist,unique" json:"user_id"`
	FilmID  string    `gorm:"type:uuid;not null;index:idx_user_film_watchlist,unique" json:"film_id"`
	AddedAt time.Time `gorm:"autoCreateTime" json:"added_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	Film Film `gorm:"foreignKey:FilmID;references:ID;constraint:OnDelete:CASCADE" json:"film,omitempty"`
}

// BeforeCreate hook to generate UUID
func (w *WatchlistItem) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (WatchlistItem) TableName() string {
	return "watchlist_items"
}
