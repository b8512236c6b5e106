package service

import (
	"testing"

	"cineconnect/internal/apperr"
	"cineconnect/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newWatchlistService(db *gorm.DB) WatchlistService {
	return NewWatchlistService(
		repository.NewWatchlistRepository(db),
		repository.NewFilmRepository(db, nil),
	)
}

func TestWatchlistAdd(t *testing.T) {
	db := setupTestDB(t)
	svc := newWatchlistService(db)

	alice := createTestUser(t, db, "alice")
	film := createTestFilm(t, db, 680, "Pulp Fiction")

	item, err := svc.Add(alice.ID, film.ID)
	require.NoError(t, err)
	assert.Equal(t, film.ID, item.FilmID)

	contained, err := svc.Contains(alice.ID, film.ID)
	require.NoError(t, err)
	assert.True(t, contained)
}

func TestWatchlistAddDuplicate(t *testing.T) {
	db := setupTestDB(t)
	svc := newWatchlistService(db)

	alice := createTestUser(t, db, "alice")
	film := createTestFilm(t, db, 680, "Pulp Fiction")

	_, err := svc.Add(alice.ID, film.ID)
	require.NoError(t, err)

	_, err = svc.Add(alice.ID, film.ID)
	assert.ErrorIs(t, err, apperr.ErrAlreadyInWatchlist)
}

func TestWatchlistAddUnknownFilm(t *testing.T) {
	db := setupTestDB(t)
	svc := newWatchlistService(db)

	alice := createTestUser(t, db, "alice")

	_, err := svc.Add(alice.ID, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, apperr.ErrFilmNotFound)
}

func TestWatchlistRemove(t *testing.T) {
	db := setupTestDB(t)
	svc := newWatchlistService(db)

	alice := createTestUser(t, db, "alice")
	film := createTestFilm(t, db, 680, "Pulp Fiction")

	_, err := svc.Add(alice.ID, film.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Remove(alice.ID, film.ID))

	contained, err := svc.Contains(alice.ID, film.ID)
	require.NoError(t, err)
	assert.False(t, contained)

	// Removing twice reports the missing row
	err = svc.Remove(alice.ID, film.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestWatchlistIsPerUser(t *testing.T) {
	db := setupTestDB(t)
	svc := newWatchlistService(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	film := createTestFilm(t, db, 680, "Pulp Fiction")
	other := createTestFilm(t, db, 550, "Fight Club")

	_, err := svc.Add(alice.ID, film.ID)
	require.NoError(t, err)
	_, err = svc.Add(alice.ID, other.ID)
	require.NoError(t, err)
	_, err = svc.Add(bob.ID, film.ID)
	require.NoError(t, err)

	items, err := svc.List(alice.ID, 50, 0)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	items, err = svc.List(bob.ID, 50, 0)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
