package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	tableProgress  = "progress"
	colID          = "id"
	colBookID      = "book_id"
	colDate        = "date"
	colPagesRead   = "pages_read"
	colMinutesRead = "minutes_read"
)

var dialect = goqu.Dialect("postgres")

// PostgresRepo stores sessions in the progress table. Dates are kept as epoch milliseconds.
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

func (r *PostgresRepo) Insert(ctx context.Context, p *Progress) error {
	query, args, err := buildInsert(*p)
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.QueryRow(timeoutCtx, query, args...).Scan(&p.ID)
}

func (r *PostgresRepo) ListByBook(ctx context.Context, bookID string) ([]Progress, error) {
	query, args, err := buildListByBook(bookID)
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Progress{}
	for rows.Next() {
		var (
			p      Progress
			dateMS int64
		)
		if err := rows.Scan(&p.ID, &p.BookID, &dateMS, &p.PagesRead, &p.MinutesRead); err != nil {
			return nil, err
		}
		p.Date = time.UnixMilli(dateMS)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) SumMinutesSince(ctx context.Context, since time.Time) (*int, error) {
	return r.sumSince(ctx, colMinutesRead, since)
}

func (r *PostgresRepo) SumPagesSince(ctx context.Context, since time.Time) (*int, error) {
	return r.sumSince(ctx, colPagesRead, since)
}

func (r *PostgresRepo) sumSince(ctx context.Context, column string, since time.Time) (*int, error) {
	query, args, err := buildSumSince(column, since)
	if err != nil {
		return nil, fmt.Errorf("build sum: %w", err)
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var sum *int64
	if err := r.db.QueryRow(timeoutCtx, query, args...).Scan(&sum); err != nil {
		return nil, err
	}
	if sum == nil {
		return nil, nil
	}
	v := int(*sum)
	return &v, nil
}

func (r *PostgresRepo) DeleteByBook(ctx context.Context, bookID string) error {
	query, args, err := buildDeleteByBook(bookID)
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err = r.db.Exec(timeoutCtx, query, args...)
	return err
}

func buildInsert(p Progress) (string, []any, error) {
	return dialect.Insert(tableProgress).
		Prepared(true).
		Rows(goqu.Record{
			colBookID:      p.BookID,
			colDate:        p.Date.UnixMilli(),
			colPagesRead:   p.PagesRead,
			colMinutesRead: p.MinutesRead,
		}).
		Returning(colID).
		ToSQL()
}

func buildListByBook(bookID string) (string, []any, error) {
	return dialect.From(tableProgress).
		Prepared(true).
		Select(colID, colBookID, colDate, colPagesRead, colMinutesRead).
		Where(goqu.C(colBookID).Eq(bookID)).
		Order(goqu.C(colDate).Asc()).
		ToSQL()
}

func buildSumSince(column string, since time.Time) (string, []any, error) {
	return dialect.From(tableProgress).
		Prepared(true).
		Select(goqu.SUM(column)).
		Where(goqu.C(colDate).Gte(since.UnixMilli())).
		ToSQL()
}

func buildDeleteByBook(bookID string) (string, []any, error) {
	return dialect.Delete(tableProgress).
		Prepared(true).
		Where(goqu.C(colBookID).Eq(bookID)).
		ToSQL()
}
