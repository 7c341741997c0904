package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/movie-catalog/internal/config"
	"github.com/spec-kit/movie-catalog/internal/domain"
	apperrors "github.com/spec-kit/movie-catalog/pkg/util"
)

type memUserRepo struct {
	users map[string]*domain.User // keyed by username
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*domain.User)}
}

func (m *memUserRepo) Create(_ context.Context, user *domain.User) error {
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	m.users[user.Username] = &clone
	return nil
}

func (m *memUserRepo) Update(_ context.Context, user *domain.User) error {
	for name, existing := range m.users {
		if existing.ID == user.ID {
			delete(m.users, name)
			clone := *user
			m.users[user.Username] = &clone
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (m *memUserRepo) Delete(_ context.Context, username string) error {
	if _, ok := m.users[username]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.users, username)
	return nil
}

func (m *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	user, ok := m.users[username]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (m *memUserRepo) UsernameExists(_ context.Context, username string) (bool, error) {
	_, ok := m.users[username]
	return ok, nil
}

func (m *memUserRepo) List(_ context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(m.users))
	for _, user := range m.users {
		out = append(out, *user)
	}
	return out, nil
}

func (m *memUserRepo) AddFavorite(_ context.Context, username, movieID string) (*domain.User, error) {
	user, ok := m.users[username]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	user.FavoriteMovies = append(user.FavoriteMovies, movieID)
	clone := *user
	return &clone, nil
}

func (m *memUserRepo) RemoveFavorite(_ context.Context, username, movieID string) (*domain.User, error) {
	user, ok := m.users[username]
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

func testConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:     "test-secret",
			TokenTTLHours: 1,
			BcryptCost:    bcrypt.MinCost,
		},
	}
}

func TestRegisterAndLogin(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewAuthService(testConfig(), AuthDependencies{UserRepo: repo})

	user, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice1", Email: "alice@example.com", Password: "Secret123",
	})
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	require.NotEqual(t, "Secret123", user.PasswordHash)

	loggedIn, token, exp, err := svc.Login(context.Background(), "alice1", "Secret123")
	require.NoError(t, err)
	require.Equal(t, user.ID, loggedIn.ID)
	require.NotEmpty(t, token)
	require.True(t, exp.After(time.Now()))

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, "alice1", claims.Subject)
	require.Equal(t, user.ID, claims.UserID)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewAuthService(testConfig(), AuthDependencies{UserRepo: repo})

	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice1", Email: "alice@example.com", Password: "Secret123",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), RegisterInput{
		Username: "alice1", Email: "other@example.com", Password: "Other456",
	})
	require.Error(t, err)

	de := apperrors.ToDomainError(err)
	require.Equal(t, "CONFLICT", de.Code)
}

func TestLoginRejectionIsIndistinguishable(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewAuthService(testConfig(), AuthDependencies{UserRepo: repo})

	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice1", Email: "alice@example.com", Password: "Secret123",
	})
	require.NoError(t, err)

	_, _, _, wrongPassErr := svc.Login(context.Background(), "alice1", "WrongPass")
	require.Error(t, wrongPassErr)

	_, _, _, unknownUserErr := svc.Login(context.Background(), "nobody99", "Secret123")
	require.Error(t, unknownUserErr)

	// identical status and message for both rejection causes
	wrongDE := apperrors.ToDomainError(wrongPassErr)
	unknownDE := apperrors.ToDomainError(unknownUserErr)
	require.Equal(t, wrongDE.HTTPStatus, unknownDE.HTTPStatus)
	require.Equal(t, wrongDE.Code, unknownDE.Code)
	require.Equal(t, wrongDE.Message, unknownDE.Message)
}
