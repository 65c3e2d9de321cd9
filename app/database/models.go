package database

import (
	"time"
)

type User struct {
	ID        string
	Email     string
	Name      string
	CreatedAt time.Time
}

type Post struct {
	ID        string
	AuthorID  string
	Type      string // "post" or "page"
	Status    string // "draft" or "published"
	Title     string
	Content   string // raw body text, never stripped or rendered
	CreatedAt time.Time
	UpdatedAt time.Time
}
