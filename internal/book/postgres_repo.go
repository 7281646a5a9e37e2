package book

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const booksTable = "books"

var (
	pgDialect   = goqu.Dialect("postgres")
	bookColumns = []any{"id", "title", "author", "isbn", "publish_date", "description"}
	likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
)

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS books (
		id           BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
		title        TEXT NOT NULL,
		author       TEXT NOT NULL DEFAULT '',
		isbn         TEXT NOT NULL DEFAULT '',
		publish_date TEXT NOT NULL DEFAULT '',
		description  TEXT NOT NULL DEFAULT ''
	)`

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

// EnsureSchema creates the books table when it does not exist yet.
func (r *PostgresRepo) EnsureSchema(ctx context.Context) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if _, err := r.db.Exec(timeoutCtx, postgresSchema); err != nil {
		return fmt.Errorf("create books table: %w", err)
	}
	return nil
}

func (r *PostgresRepo) FindAll(ctx context.Context) ([]Book, error) {
	query, args, err := selectBooks().ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build find all query: %w", err)
	}
	return r.queryBooks(ctx, query, args)
}

func (r *PostgresRepo) FindByID(ctx context.Context, id int64) (Book, error) {
	query, args, err := findByIDQuery(id)
	if err != nil {
		return Book{}, fmt.Errorf("build find by id query: %w", err)
	}

	var b Book
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err = r.db.QueryRow(timeoutCtx, query, args...).Scan(
		&b.ID, &b.Title, &b.Author, &b.ISBN, &b.PublishDate, &b.Description,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, fmt.Errorf("find book %d: %w", id, err)
	}
	return b, nil
}

func (r *PostgresRepo) FindByTitle(ctx context.Context, title string) ([]Book, error) {
	query, args, err := findByTitleQuery(title)
	if err != nil {
		return nil, fmt.Errorf("build find by title query: %w", err)
	}
	return r.queryBooks(ctx, query, args)
}

func (r *PostgresRepo) FindByTitleContains(ctx context.Context, keyword string) ([]Book, error) {
	query, args, err := findByTitleContainsQuery(keyword)
	if err != nil {
		return nil, fmt.Errorf("build title search query: %w", err)
	}
	return r.queryBooks(ctx, query, args)
}

// Seed upserts books in one transaction. Books without an id get one from
// the identity column; explicit ids move the sequence past the largest id.
func (r *PostgresRepo) Seed(ctx context.Context, books []Book) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, b := range books {
		query, args, err := seedQuery(b)
		if err != nil {
			return fmt.Errorf("build seed query: %w", err)
		}
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("seed book %q: %w", b.Title, err)
		}
	}

	const resetSequence = `
		SELECT setval(pg_get_serial_sequence('books', 'id'), COALESCE(MAX(id), 0) + 1, false)
		FROM books`
	if _, err := tx.Exec(ctx, resetSequence); err != nil {
		return fmt.Errorf("reset books id sequence: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *PostgresRepo) queryBooks(ctx context.Context, query string, args []any) ([]Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query books: %w", err)
	}
	books, err := pgx.CollectRows(rows, pgx.RowToStructByName[Book])
	if err != nil {
		return nil, fmt.Errorf("scan books: %w", err)
	}
	return books, nil
}

func selectBooks() *goqu.SelectDataset {
	return pgDialect.
		From(booksTable).
		Select(bookColumns...).
		Order(goqu.C("id").Asc()).
		Prepared(true)
}

func findByIDQuery(id int64) (string, []any, error) {
	return selectBooks().Where(goqu.C("id").Eq(id)).ToSQL()
}

func findByTitleQuery(title string) (string, []any, error) {
	return selectBooks().Where(goqu.C("title").Eq(title)).ToSQL()
}

func findByTitleContainsQuery(keyword string) (string, []any, error) {
	pattern := "%" + likeEscaper.Replace(keyword) + "%"
	return selectBooks().Where(goqu.C("title").ILike(pattern)).ToSQL()
}

func seedQuery(b Book) (string, []any, error) {
	record := goqu.Record{
		"title":        b.Title,
		"author":       b.Author,
		"isbn":         b.ISBN,
		"publish_date": b.PublishDate,
		"description":  b.Description,
	}
	insert := pgDialect.Insert(booksTable).Prepared(true)
	if b.ID == 0 {
		return insert.Rows(record).ToSQL()
	}

	record["id"] = b.ID
	return insert.Rows(record).OnConflict(goqu.DoUpdate("id", goqu.Record{
		"title":        goqu.L("EXCLUDED.title"),
		"author":       goqu.L("EXCLUDED.author"),
		"isbn":         goqu.L("EXCLUDED.isbn"),
		"publish_date": goqu.L("EXCLUDED.publish_date"),
		"description":  goqu.L("EXCLUDED.description"),
	})).ToSQL()
}
