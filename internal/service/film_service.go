package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cineconnect/internal/apperr"
	"cineconnect/internal/model"
	"cineconnect/internal/repository"
	"cineconnect/internal/tmdb"
	"cineconnect/internal/util"

	"gorm.io/gorm"
)

const (
	tmdbSearchCachePrefix   = "tmdb:search:"
	tmdbTrendingCachePrefix = "tmdb:trending:"
	tmdbPopularCachePrefix  = "tmdb:popular:"
	tmdbCacheExpiration     = 10 * time.Minute
)

type FilmService interface {
	GetFilm(id string) (*model.Film, error)
	GetOrFetchByTmdbID(ctx context.Context, tmdbID int64) (*model.Film, error)
	Search(ctx context.Context, query string, page int) (*tmdb.PagedResponse, error)
	Trending(ctx context.Context, window string, page int) (*tmdb.PagedResponse, error)
	Popular(ctx context.Context, page int) (*tmdb.PagedResponse, error)
}

type filmService struct {
	filmRepo repository.FilmRepository
	tmdb     *tmdb.Client
	redis    *util.RedisClient
}

func NewFilmService(filmRepo repository.FilmRepository, tmdbClient *tmdb.Client, redis *util.RedisClient) FilmService {
	return &filmService{
		filmRepo: filmRepo,
		tmdb:     tmdbClient,
		redis:    redis,
	}
}

func (s *filmService) GetFilm(id string) (*model.Film, error) {
	film, err := s.filmRepo.FindByID(id)
	if err != nil {
		return nil, apperr.ErrFilmNotFound
	}
	return film, nil
}

// GetOrFetchByTmdbID returns the local mirror of a TMDb title, creating it on
// first reference from the provider's details and credits.
func (s *filmService) GetOrFetchByTmdbID(ctx context.Context, tmdbID int64) (*model.Film, error) {
	film, err := s.filmRepo.FindByTmdbID(tmdbID)
	if err == nil {
		return film, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	details, err := s.tmdb.GetMovie(ctx, tmdbID)
	if err != nil {
		if errors.Is(err, tmdb.ErrNotFound) {
			return nil, apperr.ErrFilmNotFound
		}
		return nil, fmt.Errorf("failed to fetch film from provider: %w", err)
	}

	film = mirrorFilm(details)

	// Director comes from a second call; the film is still usable without it.
	if credits, err := s.tmdb.GetCredits(ctx, tmdbID); err == nil {
		if director := credits.Director(); director != "" {
			film.Director = &director
		}
	}

	if err := s.filmRepo.Create(film); err != nil {
		// A concurrent request may have mirrored the same title; the unique
		// tmdb_id index makes one of the inserts lose.
		if existing, findErr := s.filmRepo.FindByTmdbID(tmdbID); findErr == nil {
			return existing, nil
		}
		return nil, fmt.Errorf("failed to mirror film: %w", err)
	}

	return film, nil
}

func (s *filmService) Search(ctx context.Context, query string, page int) (*tmdb.PagedResponse, error) {
	key := fmt.Sprintf("%s%s:%d", tmdbSearchCachePrefix, query, page)
	if cached := s.getCachedPage(key); cached != nil {
		return cached, nil
	}

	result, err := s.tmdb.SearchMovies(ctx, query, page)
	if err != nil {
		return nil, err
	}

	s.cachePage(key, result)
	return result, nil
}

func (s *filmService) Trending(ctx context.Context, window string, page int) (*tmdb.PagedResponse, error) {
	key := fmt.Sprintf("%s%s:%d", tmdbTrendingCachePrefix, window, page)
	if cached := s.getCachedPage(key); cached != nil {
		return cached, nil
	}

	result, err := s.tmdb.TrendingMovies(ctx, window, page)
	if err != nil {
		return nil, err
	}

	s.cachePage(key, result)
	return result, nil
}

func (s *filmService) Popular(ctx context.Context, page int) (*tmdb.PagedResponse, error) {
	key := fmt.Sprintf("%s%d", tmdbPopularCachePrefix, page)
	if cached := s.getCachedPage(key); cached != nil {
		return cached, nil
	}

	result, err := s.tmdb.PopularMovies(ctx, page)
	if err != nil {
		return nil, err
	}

	s.cachePage(key, result)
	return result, nil
}

func mirrorFilm(details *tmdb.MovieDetails) *model.Film {
	film := &model.Film{
		TmdbID:         details.ID,
		Title:          details.Title,
		Runtime:        details.Runtime,
		ExternalRating: details.VoteAverage,
	}

	if len(details.ReleaseDate) >= 4 {
		if t, err := time.Parse("2006-01-02", details.ReleaseDate); err == nil {
			film.Year = t.Year()
		}
	}
	if details.Overview != "" {
		plot := details.Overview
		film.Plot = &plot
	}
	if details.PosterPath != "" {
		poster := "https://image.tmdb.org/t/p/w500" + details.PosterPath
		film.PosterURL = &poster
	}
	if len(details.Genres) > 0 {
		genre := details.Genres[0].Name
		for _, g := range details.Genres[1:] {
			genre += ", " + g.Name
		}
		film.Genre = &genre
	}

	return film
}

// Cache helpers

func (s *filmService) cachePage(key string, page *tmdb.PagedResponse) {
	if s.redis == nil {
		return
	}
	data, err := json.Marshal(page)
	if err != nil {
		return
	}
	s.redis.Set(key, string(data), tmdbCacheExpiration)
}

func (s *filmService) getCachedPage(key string) *tmdb.PagedResponse {
	if s.redis == nil {
		return nil
	}
	cached, err := s.redis.Get(key)
	if err != nil {
		return nil
	}
	var page tmdb.PagedResponse
	if err := json.Unmarshal([]byte(cached), &page); err != nil {
		return nil
	}
	return &page
}
