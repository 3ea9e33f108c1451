package progress

import (
	"context"
	"time"
)

// Store persists reading sessions and answers range aggregates.
// The sums return nil when no session matches.
type Store interface {
	Insert(ctx context.Context, p *Progress) error
	ListByBook(ctx context.Context, bookID string) ([]Progress, error)
	SumMinutesSince(ctx context.Context, since time.Time) (*int, error)
	SumPagesSince(ctx context.Context, since time.Time) (*int, error)
	DeleteByBook(ctx context.Context, bookID string) error
}
