package book

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=book

// Repository defines the read contract for book storage.
type Repository interface {
	// FindAll returns every stored book ordered by id.
	FindAll(ctx context.Context) ([]Book, error)
	// FindByID returns ErrNotFound when no book has the id.
	FindByID(ctx context.Context, id int64) (Book, error)
	// FindByTitle matches the title exactly, case-sensitive.
	FindByTitle(ctx context.Context, title string) ([]Book, error)
	// FindByTitleContains matches a case-insensitive substring of the title.
	FindByTitleContains(ctx context.Context, keyword string) ([]Book, error)
}

// Seeder loads fixture books into a backend. It is used by the seed command
// and startup seeding, never by request handlers.
type Seeder interface {
	Seed(ctx context.Context, books []Book) error
}
