package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Film is a local mirror of a TMDb title, lazily created the first time a
// user rates, reviews or watchlists it.
type Film struct {
	ID             string    `gorm:"type:uuid;primary_key" json:"id"`
	TmdbID         int64     `gorm:"not null;uniqueIndex" json:"tmdb_id"`
	Title          string    `gorm:"type:varchar(500);not null" json:"title"`
	Year           int       `json:"year"`
	PosterURL      *string   `gorm:"type:text" json:"poster_url,omitempty"`
	Plot           *string   `gorm:"type:text" json:"plot,omitempty"`
	Director       *string   `gorm:"type:varchar(255)" json:"director,omitempty"`
	Genre          *string   `gorm:"type:varchar(255)" json:"genre,omitempty"`
	Runtime        int       `json:"runtime"`
	ExternalRating float64   `json:"external_rating"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// BeforeCreate hook to generate UUID
func (f *Film) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (Film) TableName() string {
	return "films"
}
