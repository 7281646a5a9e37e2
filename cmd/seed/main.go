package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"bookcatalog/internal/book"
	"bookcatalog/internal/config"
	"bookcatalog/internal/storage"
)

// sampleBooks is loaded when no -file is given.
var sampleBooks = []book.Book{
	{ID: 1, Title: "Dune", Author: "Frank Herbert", ISBN: "978-0441172719", PublishDate: "1965-08-01"},
	{ID: 2, Title: "Foundation", Author: "Isaac Asimov", ISBN: "978-0553293357", PublishDate: "1951-06-01"},
	{ID: 3, Title: "The Go Programming Language", Author: "Alan A. A. Donovan, Brian W. Kernighan", ISBN: "978-0134190440", PublishDate: "2015-10-26"},
	{ID: 4, Title: "Hyperion", Author: "Dan Simmons", ISBN: "978-0553283686", PublishDate: "1989-05-26"},
	{ID: 5, Title: "The Left Hand of Darkness", Author: "Ursula K. Le Guin", ISBN: "978-0441478125", PublishDate: "1969-03-01"},
}

func main() {
	file := flag.String("file", "", "JSON file with an array of books; built-in samples when empty")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if cfg.Store.Driver == config.DriverMemory {
		log.Fatal("STORE_DRIVER=memory keeps nothing after exit; use postgres or sqlite, or SEED_FILE for the api")
	}

	ctx := context.Background()
	store, err := storage.Open(ctx, cfg.Store)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}

	err = seed(ctx, store, cfg.Store.Driver, *file)
	store.Close()
	if err != nil {
		log.Fatal(err)
	}
}

func seed(ctx context.Context, store *storage.Store, driver, file string) error {
	books := sampleBooks
	if file != "" {
		var err error
		if books, err = book.LoadSeedFile(file); err != nil {
			return fmt.Errorf("load seed file: %w", err)
		}
	}

	log.Printf("Seeding %d books into %s store...", len(books), driver)
	if err := store.Seeder.Seed(ctx, books); err != nil {
		return fmt.Errorf("seed books: %w", err)
	}

	all, err := store.Books.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("count books: %w", err)
	}
	log.Printf("Total books in store: %d", len(all))
	return nil
}
