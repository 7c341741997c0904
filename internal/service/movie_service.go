package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/movie-catalog/internal/config"
	"github.com/spec-kit/movie-catalog/internal/domain"
	"github.com/spec-kit/movie-catalog/internal/persistence"
	"github.com/spec-kit/movie-catalog/internal/repository"
)

const (
	cacheKeyMovieList = "movies:all"
	cacheKeyTitlePref = "movies:title:"
)

// MovieService serves catalog reads through a redis read-through cache. Cache
// failures are never surfaced; reads fall back to the database.
type MovieService struct {
	movies repository.MovieRepository
	cache  *persistence.Redis
	ttl    time.Duration
	logger *zap.Logger
}

// MovieDependencies bundles requirements for the movie service.
type MovieDependencies struct {
	MovieRepo repository.MovieRepository
	Cache     *persistence.Redis
	Logger    *zap.Logger
}

// NewMovieService constructs the service.
func NewMovieService(cfg config.Config, deps MovieDependencies) *MovieService {
	return &MovieService{
		movies: deps.MovieRepo,
		cache:  deps.Cache,
		ttl:    cfg.Cache.MovieTTL(),
		logger: deps.Logger,
	}
}

// List returns the full catalog.
func (s *MovieService) List(ctx context.Context) ([]domain.Movie, error) {
	var cached []domain.Movie
	if s.cacheGet(ctx, cacheKeyMovieList, &cached) {
		return cached, nil
	}

	movies, err := s.movies.List(ctx)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, cacheKeyMovieList, movies)
	return movies, nil
}

// GetByTitle returns a single movie by exact title.
func (s *MovieService) GetByTitle(ctx context.Context, title string) (*domain.Movie, error) {
	key := cacheKeyTitlePref + title
	var cached domain.Movie
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	movie, err := s.movies.GetByTitle(ctx, title)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, movie)
	return movie, nil
}

// GetGenre returns the genre document carried by any movie with that genre name.
func (s *MovieService) GetGenre(ctx context.Context, name string) (*domain.Genre, error) {
	return s.movies.GetGenreByName(ctx, name)
}

// GetDirector returns the director document carried by any movie with that director name.
func (s *MovieService) GetDirector(ctx context.Context, name string) (*domain.Director, error) {
	return s.movies.GetDirectorByName(ctx, name)
}

func (s *MovieService) cacheGet(ctx context.Context, key string, dest any) bool {
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Debug("movie cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		s.logger.Debug("movie cache entry corrupt", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *MovieService) cacheSet(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.ttl); err != nil {
		s.logger.Debug("movie cache write failed", zap.String("key", key), zap.Error(err))
	}
}
