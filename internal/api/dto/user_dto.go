package dto

import (
	"time"

	"github.com/spec-kit/movie-catalog/internal/domain"
)

// UserRegisterRequest payload for new accounts.
type UserRegisterRequest struct {
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	Password  string     `json:"password"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
}

// UserLoginRequest payload for login.
type UserLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserUpdateRequest payload for profile updates.
type UserUpdateRequest struct {
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	Password  string     `json:"password"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
}

// UserResponse is the outward view of an account. It never carries the
// password hash.
type UserResponse struct {
	ID             string     `json:"id"`
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	BirthDate      *time.Time `json:"birth_date,omitempty"`
	FavoriteMovies []string   `json:"favorite_movies"`
	CreatedAt      time.Time  `json:"created_at"`
}

// NewUserResponse maps a domain user to its redacted response form.
func NewUserResponse(user *domain.User) UserResponse {
	favorites := user.FavoriteMovies
	if favorites == nil {
		favorites = []string{}
	}
	return UserResponse{
		ID:             user.ID,
		Username:       user.Username,
		Email:          user.Email,
		BirthDate:      user.BirthDate,
		FavoriteMovies: favorites,
		CreatedAt:      user.CreatedAt,
	}
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
