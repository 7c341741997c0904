package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/movie-catalog/internal/domain"
)

// MovieRepository defines persistence access for the catalog. The catalog is
// read-only at the API surface; rows are seeded via migrations.
type MovieRepository interface {
	List(ctx context.Context) ([]domain.Movie, error)
	GetByTitle(ctx context.Context, title string) (*domain.Movie, error)
	GetGenreByName(ctx context.Context, name string) (*domain.Genre, error)
	GetDirectorByName(ctx context.Context, name string) (*domain.Director, error)
}

type movieRepository struct {
	pool *pgxpool.Pool
}

// NewMovieRepository returns a Postgres-backed implementation.
func NewMovieRepository(pool *pgxpool.Pool) MovieRepository {
	return &movieRepository{pool: pool}
}

const movieColumns = `id, title, description, genre, director, actors, image_path, featured, created_at`

func scanMovie(row pgx.Row) (*domain.Movie, error) {
	var movie domain.Movie
	if err := row.Scan(
		&movie.ID,
		&movie.Title,
		&movie.Description,
		&movie.Genre,
		&movie.Director,
		&movie.Actors,
		&movie.ImagePath,
		&movie.Featured,
		&movie.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &movie, nil
}

func (r *movieRepository) List(ctx context.Context) ([]domain.Movie, error) {
	const query = `SELECT ` + movieColumns + ` FROM movies ORDER BY title`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var movies []domain.Movie
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, *movie)
	}
	return movies, rows.Err()
}

func (r *movieRepository) GetByTitle(ctx context.Context, title string) (*domain.Movie, error) {
	const query = `SELECT ` + movieColumns + ` FROM movies WHERE title=$1`
	return scanMovie(r.pool.QueryRow(ctx, query, title))
}

// GetGenreByName returns the genre document of any movie carrying it.
func (r *movieRepository) GetGenreByName(ctx context.Context, name string) (*domain.Genre, error) {
	const query = `SELECT genre FROM movies WHERE genre->>'name' = $1 LIMIT 1`

	var genre domain.Genre
	if err := r.pool.QueryRow(ctx, query, name).Scan(&genre); err != nil {
		return nil, err
	}
	return &genre, nil
}

// GetDirectorByName returns the director document of any movie carrying it.
func (r *movieRepository) GetDirectorByName(ctx context.Context, name string) (*domain.Director, error) {
	const query = `SELECT director FROM movies WHERE director->>'name' = $1 LIMIT 1`

	var director domain.Director
	if err := r.pool.QueryRow(ctx, query, name).Scan(&director); err != nil {
		return nil, err
	}
	return &director, nil
}
