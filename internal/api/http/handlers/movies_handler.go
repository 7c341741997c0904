package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/movie-catalog/internal/api/dto"
	"github.com/spec-kit/movie-catalog/internal/service"
)

// MoviesHandler exposes read-only catalog endpoints.
type MoviesHandler struct {
	movies *service.MovieService
}

// NewMoviesHandler constructs handler.
func NewMoviesHandler(movieService *service.MovieService) *MoviesHandler {
	return &MoviesHandler{movies: movieService}
}

// List handles GET /movies.
func (h *MoviesHandler) List(c *fiber.Ctx) error {
	movies, err := h.movies.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"movies": dto.NewMovieResponses(movies)}})
}

// Get handles GET /movies/:title.
func (h *MoviesHandler) Get(c *fiber.Ctx) error {
	movie, err := h.movies.GetByTitle(c.Context(), c.Params("title"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fiber.NewError(http.StatusNotFound, "movie not found")
		}
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"movie": dto.NewMovieResponse(movie)}})
}

// GetGenre handles GET /movies/genres/:name.
func (h *MoviesHandler) GetGenre(c *fiber.Ctx) error {
	genre, err := h.movies.GetGenre(c.Context(), c.Params("name"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fiber.NewError(http.StatusNotFound, "genre not found")
		}
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"genre": genre}})
}

// GetDirector handles GET /movies/directors/:name.
func (h *MoviesHandler) GetDirector(c *fiber.Ctx) error {
	director, err := h.movies.GetDirector(c.Context(), c.Params("name"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fiber.NewError(http.StatusNotFound, "director not found")
		}
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"director": director}})
}
