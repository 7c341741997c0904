package domain

import "time"

// User is the domain model for registered accounts. PasswordHash always holds
// the bcrypt output, never a raw password.
type User struct {
	ID             string
	Username       string
	Email          string
	PasswordHash   string
	BirthDate      *time.Time
	FavoriteMovies []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
