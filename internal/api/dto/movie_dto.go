package dto

import (
	"time"

	"github.com/spec-kit/movie-catalog/internal/domain"
)

// MovieResponse is the outward view of a catalog entry.
type MovieResponse struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Genre       domain.Genre    `json:"genre"`
	Director    domain.Director `json:"director"`
	Actors      []string        `json:"actors"`
	ImagePath   *string         `json:"image_path,omitempty"`
	Featured    bool            `json:"featured"`
	CreatedAt   time.Time       `json:"created_at"`
}

// NewMovieResponse maps a domain movie to its response form.
func NewMovieResponse(movie *domain.Movie) MovieResponse {
	actors := movie.Actors
	if actors == nil {
		actors = []string{}
	}
	return MovieResponse{
		ID:          movie.ID,
		Title:       movie.Title,
		Description: movie.Description,
		Genre:       movie.Genre,
		Director:    movie.Director,
		Actors:      actors,
		ImagePath:   movie.ImagePath,
		Featured:    movie.Featured,
		CreatedAt:   movie.CreatedAt,
	}
}

// NewMovieResponses maps a slice of domain movies.
func NewMovieResponses(movies []domain.Movie) []MovieResponse {
	out := make([]MovieResponse, 0, len(movies))
	for i := range movies {
		out = append(out, NewMovieResponse(&movies[i]))
	}
	return out
}
