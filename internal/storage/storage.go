package storage

import (
	"context"
	"fmt"

	"bookcatalog/internal/book"
	"bookcatalog/internal/config"
)

// Store bundles the book backend selected by configuration.
type Store struct {
	Books  book.Repository
	Seeder book.Seeder
	ping   func(ctx context.Context) error
	close  func()
}

// Ping reports whether the backend can serve queries.
func (s *Store) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

func (s *Store) Close() {
	if s.close != nil {
		s.close()
	}
}

// Open connects to the configured backend and makes sure the books table
// exists.
func Open(ctx context.Context, cfg config.Store) (*Store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := OpenPostgres(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		repo := book.NewPostgresRepo(pool, cfg.QueryTimeout)
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		return &Store{Books: repo, Seeder: repo, ping: pool.Ping, close: pool.Close}, nil

	case config.DriverSQLite:
		db, err := OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		repo := book.NewSQLiteRepo(db, cfg.QueryTimeout)
		if err := repo.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, err
		}
		return &Store{
			Books:  repo,
			Seeder: repo,
			ping:   db.PingContext,
			close:  func() { _ = db.Close() },
		}, nil

	case config.DriverMemory:
		repo := book.NewMemoryRepo()
		return &Store{Books: repo, Seeder: repo}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
}

// SeedFromFile loads the JSON seed file at path into the store. An empty
// path is a no-op. It returns the number of books loaded.
func (s *Store) SeedFromFile(ctx context.Context, path string) (int, error) {
	if path == "" {
		return 0, nil
	}
	books, err := book.LoadSeedFile(path)
	if err != nil {
		return 0, err
	}
	if err := s.Seeder.Seed(ctx, books); err != nil {
		return 0, fmt.Errorf("seed store: %w", err)
	}
	return len(books), nil
}
