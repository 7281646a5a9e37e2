package book

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrInvalidSeed is returned when seed data breaks the catalog invariants.
var ErrInvalidSeed = errors.New("invalid seed data")

// DecodeSeed reads a JSON array of books and checks that every title is set
// and that explicit ids are positive and unique.
func DecodeSeed(r io.Reader) ([]Book, error) {
	var books []Book
	if err := json.NewDecoder(r).Decode(&books); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}

	seen := make(map[int64]bool, len(books))
	for i, b := range books {
		if strings.TrimSpace(b.Title) == "" {
			return nil, fmt.Errorf("%w: book #%d has no title", ErrInvalidSeed, i)
		}
		if b.ID < 0 {
			return nil, fmt.Errorf("%w: book #%d has negative id %d", ErrInvalidSeed, i, b.ID)
		}
		if b.ID == 0 {
			continue
		}
		if seen[b.ID] {
			return nil, fmt.Errorf("%w: duplicate id %d", ErrInvalidSeed, b.ID)
		}
		seen[b.ID] = true
	}
	return books, nil
}

// LoadSeedFile decodes the seed file at path.
func LoadSeedFile(path string) ([]Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	return DecodeSeed(f)
}
