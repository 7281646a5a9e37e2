package book

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS books (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	title        TEXT NOT NULL,
	author       TEXT NOT NULL DEFAULT '',
	isbn         TEXT NOT NULL DEFAULT '',
	publish_date TEXT NOT NULL DEFAULT '',
	description  TEXT NOT NULL DEFAULT ''
);`

const sqliteSelectBooks = `SELECT id, title, author, isbn, publish_date, description FROM books`

// foldCaseFunc is registered on every SQLite connection. The built-in lower()
// folds ASCII only.
const foldCaseFunc = "fold_case"

func init() {
	if err := sqlite.RegisterDeterministicScalarFunction(foldCaseFunc, 1, foldCase); err != nil {
		panic(fmt.Sprintf("register sqlite %s: %v", foldCaseFunc, err))
	}
}

func foldCase(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return nil, fmt.Errorf("%s: unsupported argument type %T", foldCaseFunc, v)
	}
}

const sqliteTitleContains = sqliteSelectBooks + ` WHERE instr(` + foldCaseFunc + `(title), ?) > 0 ORDER BY id`

// SQLiteRepo stores books in an embedded SQLite database.
type SQLiteRepo struct {
	db      *sqlx.DB
	timeout time.Duration
}

func NewSQLiteRepo(db *sqlx.DB, timeout time.Duration) *SQLiteRepo {
	return &SQLiteRepo{db: db, timeout: timeout}
}

func (r *SQLiteRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *SQLiteRepo) EnsureSchema(ctx context.Context) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if _, err := r.db.ExecContext(timeoutCtx, sqliteSchema); err != nil {
		return fmt.Errorf("create books table: %w", err)
	}
	return nil
}

func (r *SQLiteRepo) FindAll(ctx context.Context) ([]Book, error) {
	return r.selectBooks(ctx, sqliteSelectBooks+` ORDER BY id`)
}

func (r *SQLiteRepo) FindByID(ctx context.Context, id int64) (Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var b Book
	err := r.db.GetContext(timeoutCtx, &b, sqliteSelectBooks+` WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, fmt.Errorf("find book %d: %w", id, err)
	}
	return b, nil
}

func (r *SQLiteRepo) FindByTitle(ctx context.Context, title string) ([]Book, error) {
	return r.selectBooks(ctx, sqliteSelectBooks+` WHERE title = ? ORDER BY id`, title)
}

func (r *SQLiteRepo) FindByTitleContains(ctx context.Context, keyword string) ([]Book, error) {
	return r.selectBooks(ctx, sqliteTitleContains, strings.ToLower(keyword))
}

func (r *SQLiteRepo) Seed(ctx context.Context, books []Book) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const insertSQL = `
		INSERT INTO books (title, author, isbn, publish_date, description)
		VALUES (:title, :author, :isbn, :publish_date, :description)`
	const upsertSQL = `
		INSERT INTO books (id, title, author, isbn, publish_date, description)
		VALUES (:id, :title, :author, :isbn, :publish_date, :description)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			author = excluded.author,
			isbn = excluded.isbn,
			publish_date = excluded.publish_date,
			description = excluded.description`

	for _, b := range books {
		query := upsertSQL
		if b.ID == 0 {
			query = insertSQL
		}
		if _, err := tx.NamedExecContext(ctx, query, b); err != nil {
			return fmt.Errorf("seed book %q: %w", b.Title, err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRepo) selectBooks(ctx context.Context, query string, args ...any) ([]Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	books := []Book{}
	if err := r.db.SelectContext(timeoutCtx, &books, query, args...); err != nil {
		return nil, fmt.Errorf("query books: %w", err)
	}
	return books, nil
}
