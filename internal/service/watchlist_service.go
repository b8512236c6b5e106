package service

import (
	"fmt"

	"cineconnect/internal/apperr"
	"cineconnect/internal/model"
	"cineconnect/internal/repository"
)

type WatchlistService interface {
	Add(userID, filmID string) (*model.WatchlistItem, error)
	Remove(userID, filmID string) error
	List(userID string, limit, offset int) ([]*model.WatchlistItem, error)
	Contains(userID, filmID string) (bool, error)
}

type watchlistService struct {
	watchlistRepo repository.WatchlistRepository
	filmRepo      repository.FilmRepository
}

func NewWatchlistService(
	watchlistRepo repository.WatchlistRepository,
	filmRepo repository.FilmRepository,
) WatchlistService {
	return &watchlistService{
		watchlistRepo: watchlistRepo,
		filmRepo:      filmRepo,
	}
}

func (s *watchlistService) Add(userID, filmID string) (*model.WatchlistItem, error) {
	if _, err := s.filmRepo.FindByID(filmID); err != nil {
		return nil, apperr.ErrFilmNotFound
	}

	if existing, err := s.watchlistRepo.FindByUserAndFilm(userID, filmID); err == nil && existing != nil {
		return nil, apperr.ErrAlreadyInWatchlist
	}

	item := &model.WatchlistItem{UserID: userID, FilmID: filmID}
	if err := s.watchlistRepo.Create(item); err != nil {
		return nil, fmt.Errorf("failed to add to watchlist: %w", err)
	}

	return s.watchlistRepo.FindByUserAndFilm(userID, filmID)
}

func (s *watchlistService) Remove(userID, filmID string) error {
	affected, err := s.watchlistRepo.DeleteByUserAndFilm(userID, filmID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (s *watchlistService) List(userID string, limit, offset int) ([]*model.WatchlistItem, error) {
	return s.watchlistRepo.FindByUserID(userID, clampLimit(limit), offset)
}

func (s *watchlistService) Contains(userID, filmID string) (bool, error) {
	if _, err := s.watchlistRepo.FindByUserAndFilm(userID, filmID); err != nil {
		return false, nil
	}
	return true, nil
}
