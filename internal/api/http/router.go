package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/movie-catalog/internal/api/http/handlers"
	"github.com/spec-kit/movie-catalog/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Movies         *handlers.MoviesHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Registration, login and the welcome route
// are public; everything else sits behind the auth middleware.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Welcome to the movie catalog!")
	})

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/users", cfg.Users.Register)
	app.Post("/login", cfg.Users.Login)

	users := app.Group("/users", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	users.Get("/", cfg.Users.List)
	users.Get("/:username", cfg.Users.Get)
	users.Put("/:username", cfg.Users.Update)
	users.Delete("/:username", cfg.Users.Delete)
	users.Post("/:username/movies/:movieID", cfg.Users.AddFavorite)
	users.Delete("/:username/movies/:movieID", cfg.Users.RemoveFavorite)

	movies := app.Group("/movies", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	movies.Get("/", cfg.Movies.List)
	movies.Get("/genres/:name", cfg.Movies.GetGenre)
	movies.Get("/directors/:name", cfg.Movies.GetDirector)
	movies.Get("/:title", cfg.Movies.Get)
}
