package domain

import "time"

// Genre is the embedded genre document of a movie.
type Genre struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Director is the embedded director document of a movie.
type Director struct {
	Name string `json:"name"`
	Bio  string `json:"bio"`
}

// Movie is the domain model for catalog entries. Genre and Director are stored
// as JSON documents alongside the row.
type Movie struct {
	ID          string
	Title       string
	Description string
	Genre       Genre
	Director    Director
	Actors      []string
	ImagePath   *string
	Featured    bool
	CreatedAt   time.Time
}
