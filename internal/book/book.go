package book

import (
	"errors"
)

// ErrNotFound is returned when no book has the requested id.
var ErrNotFound = errors.New("book not found")

// Book represents a catalog entry.
type Book struct {
	ID          int64  `json:"id" db:"id"`
	Title       string `json:"title" db:"title"`
	Author      string `json:"author,omitempty" db:"author"`
	ISBN        string `json:"isbn,omitempty" db:"isbn"`
	PublishDate string `json:"publishDate,omitempty" db:"publish_date"`
	Description string `json:"description,omitempty" db:"description"`
}
