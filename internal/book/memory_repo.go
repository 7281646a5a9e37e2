package book

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
)

// MemoryRepo keeps books in process memory. It is safe for concurrent use.
type MemoryRepo struct {
	mu     sync.RWMutex
	books  map[int64]Book
	lastID int64
}

func NewMemoryRepo(books ...Book) *MemoryRepo {
	r := &MemoryRepo{books: make(map[int64]Book)}
	r.put(books)
	return r
}

func (r *MemoryRepo) FindAll(ctx context.Context) ([]Book, error) {
	return r.filter(func(Book) bool { return true }), nil
}

func (r *MemoryRepo) FindByID(ctx context.Context, id int64) (Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.books[id]
	if !ok {
		return Book{}, ErrNotFound
	}
	return b, nil
}

func (r *MemoryRepo) FindByTitle(ctx context.Context, title string) ([]Book, error) {
	return r.filter(func(b Book) bool { return b.Title == title }), nil
}

func (r *MemoryRepo) FindByTitleContains(ctx context.Context, keyword string) ([]Book, error) {
	needle := strings.ToLower(keyword)
	return r.filter(func(b Book) bool {
		return strings.Contains(strings.ToLower(b.Title), needle)
	}), nil
}

func (r *MemoryRepo) Seed(ctx context.Context, books []Book) error {
	r.put(books)
	return nil
}

func (r *MemoryRepo) put(books []Book) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, b := range books {
		if b.ID == 0 {
			r.lastID++
			b.ID = r.lastID
		}
		if b.ID > r.lastID {
			r.lastID = b.ID
		}
		r.books[b.ID] = b
	}
}

func (r *MemoryRepo) filter(match func(Book) bool) []Book {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []Book{}
	for _, b := range r.books {
		if match(b) {
			out = append(out, b)
		}
	}
	slices.SortFunc(out, func(a, b Book) int { return cmp.Compare(a.ID, b.ID) })
	return out
}
