package repository

import (
	"encoding/json"
	"strconv"
	"time"

	"cineconnect/internal/model"
	"cineconnect/internal/util"

	"gorm.io/gorm"
)

type FilmRepository interface {
	Create(film *model.Film) error
	FindByID(id string) (*model.Film, error)
	FindByTmdbID(tmdbID int64) (*model.Film, error)
	Update(film *model.Film) error
}

type filmRepository struct {
	db    *gorm.DB
	redis *util.RedisClient
}

const (
	filmCachePrefix     = "film:"
	filmTmdbCachePrefix = "film:tmdb:"
	filmCacheExpiration = time.Hour
)

func NewFilmRepository(db *gorm.DB, redis *util.RedisClient) FilmRepository {
	return &filmRepository{db: db, redis: redis}
}

func (r *filmRepository) Create(film *model.Film) error {
	if err := r.db.Create(film).Error; err != nil {
		return err
	}
	r.invalidate(film)
	return nil
}

func (r *filmRepository) FindByID(id string) (*model.Film, error) {
	if cached := r.getFromCache(filmCachePrefix + id); cached != nil {
		return cached, nil
	}

	var film model.Film
	if err := r.db.Where("id = ?", id).First(&film).Error; err != nil {
		return nil, err
	}

	r.cache(filmCachePrefix+film.ID, &film)
	return &film, nil
}

func (r *filmRepository) FindByTmdbID(tmdbID int64) (*model.Film, error) {
	if cached := r.getFromCache(filmTmdbCachePrefix + itoa(tmdbID)); cached != nil {
		return cached, nil
	}

	var film model.Film
	if err := r.db.Where("tmdb_id = ?", tmdbID).First(&film).Error; err != nil {
		return nil, err
	}

	r.cache(filmTmdbCachePrefix+itoa(tmdbID), &film)
	return &film, nil
}

func (r *filmRepository) Update(film *model.Film) error {
	if err := r.db.Save(film).Error; err != nil {
		return err
	}
	r.invalidate(film)
	return nil
}

// Cache helpers

func (r *filmRepository) cache(key string, film *model.Film) {
	if r.redis == nil {
		return
	}
	data, err := json.Marshal(film)
	if err != nil {
		return
	}
	r.redis.Set(key, string(data), filmCacheExpiration)
}

func (r *filmRepository) getFromCache(key string) *model.Film {
	if r.redis == nil {
		return nil
	}
	cached, err := r.redis.Get(key)
	if err != nil {
		return nil
	}
	var film model.Film
	if err := json.Unmarshal([]byte(cached), &film); err != nil {
		return nil
	}
	return &film
}

func (r *filmRepository) invalidate(film *model.Film) {
	if r.redis == nil {
		return
	}
	r.redis.Delete(filmCachePrefix + film.ID)
	r.redis.Delete(filmTmdbCachePrefix + itoa(film.TmdbID))
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
