package book

import (
	"context"
)

// Service provides book-related business logic.
type Service struct {
	repo Repository
}

// NewService creates a new book service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListBooks returns every book in the catalog.
func (s *Service) ListBooks(ctx context.Context) ([]Book, error) {
	return s.repo.FindAll(ctx)
}

// GetBook returns a book by its id.
func (s *Service) GetBook(ctx context.Context, id int64) (Book, error) {
	return s.repo.FindByID(ctx, id)
}

// FindByTitle returns books whose title matches exactly.
func (s *Service) FindByTitle(ctx context.Context, title string) ([]Book, error) {
	return s.repo.FindByTitle(ctx, title)
}

// SearchByTitle returns books whose title contains keyword, ignoring case.
func (s *Service) SearchByTitle(ctx context.Context, keyword string) ([]Book, error) {
	return s.repo.FindByTitleContains(ctx, keyword)
}
