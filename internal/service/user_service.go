package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/movie-catalog/internal/auth"
	"github.com/spec-kit/movie-catalog/internal/config"
	"github.com/spec-kit/movie-catalog/internal/domain"
	"github.com/spec-kit/movie-catalog/internal/events"
	"github.com/spec-kit/movie-catalog/internal/repository"
)

// UserService coordinates profile and favorites workflows.
type UserService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
	bcryptCost int
}

// UserDependencies bundles requirements for the user service.
type UserDependencies struct {
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
}

// ProfileUpdateInput describes the updatable profile fields. Password arrives
// in plaintext and is rehashed before persisting.
type ProfileUpdateInput struct {
	Username  string
	Email     string
	Password  string
	BirthDate *time.Time
}

// NewUserService constructs the service.
func NewUserService(cfg config.Config, deps UserDependencies) *UserService {
	return &UserService{
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// List returns all registered users.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// GetByUsername returns a single user.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.users.GetByUsername(ctx, username)
}

// UpdateProfile replaces the profile fields of the named account.
func (s *UserService) UpdateProfile(ctx context.Context, username string, input ProfileUpdateInput) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user.Username = input.Username
	user.Email = input.Email
	user.PasswordHash = hash
	user.BirthDate = input.BirthDate

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes the account. Tokens already issued for it keep verifying
// cryptographically until expiry; the auth middleware rejects them at the
// identity lookup instead.
func (s *UserService) Delete(ctx context.Context, username string) error {
	if err := s.users.Delete(ctx, username); err != nil {
		return err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventUserDeleted,
		Username: username,
	})
	return nil
}

// AddFavorite appends a movie reference to the user's favorites list.
func (s *UserService) AddFavorite(ctx context.Context, username, movieID string) (*domain.User, error) {
	user, err := s.users.AddFavorite(ctx, username, movieID)
	if err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventFavoriteAdded,
		Username: username,
		Payload:  events.FavoritePayload{MovieID: movieID},
	})
	return user, nil
}

// RemoveFavorite removes a movie reference from the user's favorites list.
func (s *UserService) RemoveFavorite(ctx context.Context, username, movieID string) (*domain.User, error) {
	user, err := s.users.RemoveFavorite(ctx, username, movieID)
	if err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventFavoriteRemoved,
		Username: username,
		Payload:  events.FavoritePayload{MovieID: movieID},
	})
	return user, nil
}

func (s *UserService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}
