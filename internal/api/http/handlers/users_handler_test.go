package handlers_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	httptransport "github.com/spec-kit/movie-catalog/internal/api/http"
	"github.com/spec-kit/movie-catalog/internal/api/http/handlers"
	"github.com/spec-kit/movie-catalog/internal/auth"
	"github.com/spec-kit/movie-catalog/internal/config"
	"github.com/spec-kit/movie-catalog/internal/domain"
	"github.com/spec-kit/movie-catalog/internal/observability"
	"github.com/spec-kit/movie-catalog/internal/persistence"
	"github.com/spec-kit/movie-catalog/internal/repository"
	"github.com/spec-kit/movie-catalog/internal/service"
)

type fakeUserRepo struct {
	users map[string]*domain.User
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	clone := *user
	f.users[user.Username] = &clone
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	for name, existing := range f.users {
		if existing.ID == user.ID {
			delete(f.users, name)
			clone := *user
			f.users[user.Username] = &clone
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeUserRepo) Delete(_ context.Context, username string) error {
	if _, ok := f.users[username]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.users, username)
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	for _, user := range f.users {
		if user.ID == id {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	user, ok := f.users[username]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (f *fakeUserRepo) UsernameExists(_ context.Context, username string) (bool, error) {
	_, ok := f.users[username]
	return ok, nil
}

func (f *fakeUserRepo) List(_ context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(f.users))
	for _, user := range f.users {
		out = append(out, *user)
	}
	return out, nil
}

func (f *fakeUserRepo) AddFavorite(_ context.Context, username, movieID string) (*domain.User, error) {
	user, ok := f.users[username]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	user.FavoriteMovies = append(user.FavoriteMovies, movieID)
	clone := *user
	return &clone, nil
}

func (f *fakeUserRepo) RemoveFavorite(_ context.Context, username, movieID string) (*domain.User, error) {
	user, ok := f.users[username]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	kept := user.FavoriteMovies[:0]
	for _, id := range user.FavoriteMovies {
		if id != movieID {
			kept = append(kept, id)
		}
	}
	user.FavoriteMovies = kept
	clone := *user
	return &clone, nil
}

type fakeMovieRepo struct {
	movies []domain.Movie
}

var _ repository.MovieRepository = (*fakeMovieRepo)(nil)

func (f *fakeMovieRepo) List(context.Context) ([]domain.Movie, error) { return f.movies, nil }

func (f *fakeMovieRepo) GetByTitle(_ context.Context, title string) (*domain.Movie, error) {
	for i := range f.movies {
		if f.movies[i].Title == title {
			return &f.movies[i], nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeMovieRepo) GetGenreByName(_ context.Context, name string) (*domain.Genre, error) {
	for i := range f.movies {
		if f.movies[i].Genre.Name == name {
			return &f.movies[i].Genre, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeMovieRepo) GetDirectorByName(_ context.Context, name string) (*domain.Director, error) {
	for i := range f.movies {
		if f.movies[i].Director.Name == name {
			return &f.movies[i].Director, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func newTestServer(t *testing.T) *fiber.App {
	t.Helper()

	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:     "test-secret",
			TokenTTLHours: 1,
			BcryptCost:    bcrypt.MinCost,
		},
	}
	logger := zap.NewNop()

	userRepo := &fakeUserRepo{users: make(map[string]*domain.User)}
	movieRepo := &fakeMovieRepo{movies: []domain.Movie{
		{ID: uuid.NewString(), Title: "Alien", Genre: domain.Genre{Name: "Horror"}, Director: domain.Director{Name: "Ridley Scott"}},
	}}

	authService := service.NewAuthService(cfg, service.AuthDependencies{UserRepo: userRepo})
	userService := service.NewUserService(cfg, service.UserDependencies{UserRepo: userRepo})
	movieService := service.NewMovieService(cfg, service.MovieDependencies{
		MovieRepo: movieRepo,
		Cache:     persistence.NewRedis(config.RedisConfig{Addr: "127.0.0.1:1"}, logger),
		Logger:    logger,
	})

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, observability.NewMetrics(), 0)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler("test", "test", &persistence.Postgres{}, &persistence.Redis{}),
		Users:          handlers.NewUsersHandler(authService, userService),
		Movies:         handlers.NewMoviesHandler(movieService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), userRepo),
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	if len(raw) > 0 && json.Valid(raw) {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func registerAndLogin(t *testing.T, app *fiber.App) string {
	t.Helper()

	resp, body := doJSON(t, app, http.MethodPost, "/users", "", map[string]string{
		"username": "alice1", "email": "alice@example.com", "password": "Secret123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// the registration payload must never echo the password or its hash
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "Secret123")
	require.NotContains(t, string(raw), "password")

	resp, body = doJSON(t, app, http.MethodPost, "/login", "", map[string]string{
		"username": "alice1", "password": "Secret123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]any)
	token := data["auth"].(map[string]any)["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestRegisterLoginAndProtectedAccess(t *testing.T) {
	app := newTestServer(t)
	token := registerAndLogin(t, app)

	resp, body := doJSON(t, app, http.MethodGet, "/users/alice1", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	user := body["data"].(map[string]any)["user"].(map[string]any)
	require.Equal(t, "alice1", user["username"])
	require.NotContains(t, user, "password_hash")
}

func TestProtectedRouteWithoutToken(t *testing.T) {
	app := newTestServer(t)
	registerAndLogin(t, app)

	resp, _ := doJSON(t, app, http.MethodGet, "/users/alice1", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/movies", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProtectedRouteWithTamperedToken(t *testing.T) {
	app := newTestServer(t)
	token := registerAndLogin(t, app)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	var claims map[string]any
	require.NoError(t, json.Unmarshal(payload, &claims))
	claims["sub"] = "mallory"
	altered, err := json.Marshal(claims)
	require.NoError(t, err)
	tampered := parts[0] + "." + base64.RawURLEncoding.EncodeToString(altered) + "." + parts[2]

	resp, _ := doJSON(t, app, http.MethodGet, "/users/alice1", tampered, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLoginRejectionsAreIdentical(t *testing.T) {
	app := newTestServer(t)
	registerAndLogin(t, app)

	respWrong, bodyWrong := doJSON(t, app, http.MethodPost, "/login", "", map[string]string{
		"username": "alice1", "password": "WrongPass",
	})
	respUnknown, bodyUnknown := doJSON(t, app, http.MethodPost, "/login", "", map[string]string{
		"username": "nobody99", "password": "Secret123",
	})

	require.Equal(t, http.StatusUnauthorized, respWrong.StatusCode)
	require.Equal(t, respWrong.StatusCode, respUnknown.StatusCode)
	require.Equal(t, bodyWrong, bodyUnknown)
}

func TestRegisterValidation(t *testing.T) {
	app := newTestServer(t)

	cases := []map[string]string{
		{"username": "abc", "email": "a@b.com", "password": "Secret123"},
		{"username": "alice!", "email": "a@b.com", "password": "Secret123"},
		{"username": "alice1", "email": "not-an-email", "password": "Secret123"},
		{"username": "alice1", "email": "a@b.com", "password": ""},
	}
	for _, payload := range cases {
		resp, _ := doJSON(t, app, http.MethodPost, "/users", "", payload)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode, "payload %v", payload)
	}
}

func TestMoviesAndFavoritesFlow(t *testing.T) {
	app := newTestServer(t)
	token := registerAndLogin(t, app)

	resp, body := doJSON(t, app, http.MethodGet, "/movies/Alien", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	movie := body["data"].(map[string]any)["movie"].(map[string]any)
	movieID := movie["id"].(string)

	resp, body = doJSON(t, app, http.MethodPost, "/users/alice1/movies/"+movieID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	user := body["data"].(map[string]any)["user"].(map[string]any)
	favorites := user["favorite_movies"].([]any)
	require.Len(t, favorites, 1)
	require.Equal(t, movieID, favorites[0])

	resp, _ = doJSON(t, app, http.MethodDelete, "/users/alice1/movies/"+movieID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDeletedUserTokenRejected(t *testing.T) {
	app := newTestServer(t)
	token := registerAndLogin(t, app)

	resp, _ := doJSON(t, app, http.MethodDelete, "/users/alice1", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// token is still unexpired and correctly signed, but the account is gone
	resp, _ = doJSON(t, app, http.MethodGet, "/users/alice1", token, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
