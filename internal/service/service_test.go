package service

import (
	"testing"

	"cineconnect/internal/model"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Film{},
		&model.Friendship{},
		&model.Message{},
		&model.Review{},
		&model.ReviewLike{},
		&model.ReviewComment{},
		&model.WatchlistItem{},
	))

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()

	user := &model.User{
		Email:        username + "@example.com",
		Username:     username,
		PasswordHash: "not-a-real-hash",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestFilm(t *testing.T, db *gorm.DB, tmdbID int64, title string) *model.Film {
	t.Helper()

	film := &model.Film{
		TmdbID: tmdbID,
		Title:  title,
		Year:   2020,
	}
	require.NoError(t, db.Create(film).Error)
	return film
}
