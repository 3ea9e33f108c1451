package book

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const selectColumns = `
	id, title, subtitle, description, authors, categories, isbn, thumbnail,
	publisher, published_date, average_rating, ratings_count, page_count, current_page,
	created_at, updated_at`

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

func (r *PostgresRepo) List(ctx context.Context, q ListQuery) ([]Book, error) {
	query := `SELECT ` + selectColumns + ` FROM books`
	var (
		where []string
		args  []any
	)
	if q.Q != "" {
		args = append(args, q.Q)
		where = append(where, fmt.Sprintf("strpos(lower(title), lower($%d)) > 0", len(args)))
	}
	if q.After.AfterID != "" {
		args = append(args, q.After.AfterTitle, q.After.AfterID)
		where = append(where, fmt.Sprintf("(title, id) > ($%d, $%d)", len(args)-1, len(args)))
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY title ASC, id ASC"
	if q.Limit > 0 {
		args = append(args, q.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (Book, error) {
	const query = `SELECT ` + selectColumns + ` FROM books WHERE id = $1`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	b, err := scanBook(r.db.QueryRow(timeoutCtx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}

func (r *PostgresRepo) Insert(ctx context.Context, b *Book) error {
	const query = `
		INSERT INTO books (id, title, subtitle, description, authors, categories, isbn, thumbnail,
		                   publisher, published_date, average_rating, ratings_count, page_count, current_page,
		                   created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())
		ON CONFLICT (id) DO NOTHING
		RETURNING created_at, updated_at`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query,
		b.ID, b.Title, b.Subtitle, b.Description, b.Authors, b.Categories, b.ISBN, b.Thumbnail,
		b.Publisher, b.PublishedDate, b.AverageRating, b.RatingsCount, b.PageCount, b.CurrentPage,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrAlreadyExists
	}
	return err
}

// UpdatePages moves the current page marker. A non-positive pageCount leaves
// the stored page count unchanged.
func (r *PostgresRepo) UpdatePages(ctx context.Context, id string, currentPage, pageCount int) error {
	const query = `
		UPDATE books
		SET current_page = $2,
		    page_count = CASE WHEN $3 > 0 THEN $3 ELSE page_count END,
		    updated_at = NOW()
		WHERE id = $1`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	result, err := r.db.Exec(timeoutCtx, query, id, currentPage, pageCount)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM books WHERE id = $1`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	result, err := r.db.Exec(timeoutCtx, query, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanBook(row pgx.Row) (Book, error) {
	var b Book
	err := row.Scan(
		&b.ID, &b.Title, &b.Subtitle, &b.Description, &b.Authors, &b.Categories, &b.ISBN, &b.Thumbnail,
		&b.Publisher, &b.PublishedDate, &b.AverageRating, &b.RatingsCount, &b.PageCount, &b.CurrentPage,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return Book{}, err
	}
	b.Normalize()
	return b, nil
}
