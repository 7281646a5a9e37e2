package book

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testBooks = []Book{
	{ID: 1, Title: "Dune", Author: "Frank Herbert"},
	{ID: 2, Title: "Foundation", Author: "Isaac Asimov"},
	{ID: 3, Title: "The Go Programming Language", ISBN: "978-0134190440"},
	{ID: 4, Title: "100% Go_Idioms"},
}

// testRepositoryContract checks the read semantics every backend must share.
// repo must be empty on entry.
func testRepositoryContract(t *testing.T, repo Repository, seeder Seeder) {
	t.Helper()
	ctx := context.Background()

	t.Run("empty store", func(t *testing.T) {
		books, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.NotNil(t, books)
		assert.Empty(t, books)

		_, err = repo.FindByID(ctx, 1)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	require.NoError(t, seeder.Seed(ctx, testBooks))

	t.Run("find all returns every book ordered by id", func(t *testing.T) {
		books, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, testBooks, books)
	})

	t.Run("find by id returns the stored book", func(t *testing.T) {
		for _, want := range testBooks {
			got, err := repo.FindByID(ctx, want.ID)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
	})

	t.Run("find by id misses", func(t *testing.T) {
		for _, id := range []int64{0, -1, 99} {
			_, err := repo.FindByID(ctx, id)
			assert.ErrorIs(t, err, ErrNotFound, "id %d", id)
		}
	})

	t.Run("exact title is case-sensitive", func(t *testing.T) {
		books, err := repo.FindByTitle(ctx, "Dune")
		require.NoError(t, err)
		assert.Equal(t, []Book{testBooks[0]}, books)

		books, err = repo.FindByTitle(ctx, "dune")
		require.NoError(t, err)
		assert.Empty(t, books)

		books, err = repo.FindByTitle(ctx, "Dun")
		require.NoError(t, err)
		assert.Empty(t, books)
	})

	t.Run("title contains ignores case", func(t *testing.T) {
		books, err := repo.FindByTitleContains(ctx, "go")
		require.NoError(t, err)
		assert.Equal(t, []Book{testBooks[2], testBooks[3]}, books)

		books, err = repo.FindByTitleContains(ctx, "FOUND")
		require.NoError(t, err)
		assert.Equal(t, []Book{testBooks[1]}, books)

		books, err = repo.FindByTitleContains(ctx, "missing")
		require.NoError(t, err)
		assert.Empty(t, books)
	})

	t.Run("title contains matches wildcards literally", func(t *testing.T) {
		books, err := repo.FindByTitleContains(ctx, "%")
		require.NoError(t, err)
		assert.Equal(t, []Book{testBooks[3]}, books)

		books, err = repo.FindByTitleContains(ctx, "o_i")
		require.NoError(t, err)
		assert.Equal(t, []Book{testBooks[3]}, books)

		books, err = repo.FindByTitleContains(ctx, "D_ne")
		require.NoError(t, err)
		assert.Empty(t, books)
	})

	t.Run("seed without id appends", func(t *testing.T) {
		require.NoError(t, seeder.Seed(ctx, []Book{{Title: "Hyperion"}}))

		books, err := repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, books, len(testBooks)+1)
		last := books[len(books)-1]
		assert.Equal(t, "Hyperion", last.Title)
		assert.Greater(t, last.ID, testBooks[len(testBooks)-1].ID)
	})

	t.Run("seed with existing id replaces", func(t *testing.T) {
		require.NoError(t, seeder.Seed(ctx, []Book{{ID: 1, Title: "Dune Messiah"}}))

		got, err := repo.FindByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, Book{ID: 1, Title: "Dune Messiah"}, got)
	})

	t.Run("title contains folds non-ASCII case", func(t *testing.T) {
		uber := Book{ID: 20, Title: "Über Go"}
		ecole := Book{ID: 21, Title: "ÉCOLE"}
		require.NoError(t, seeder.Seed(ctx, []Book{uber, ecole}))

		tests := []struct {
			keyword string
			want    []Book
		}{
			{"über", []Book{uber}},
			{"ÜBER", []Book{uber}},
			{"école", []Book{ecole}},
			{"cole", []Book{ecole}},
		}
		for _, tt := range tests {
			books, err := repo.FindByTitleContains(ctx, tt.keyword)
			require.NoError(t, err)
			assert.Equal(t, tt.want, books, "keyword %q", tt.keyword)
		}
	})
}
