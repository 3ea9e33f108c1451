package stats

import (
	"context"
	"time"

	"bookdiary/internal/progress"
)

// Aggregates answers range sums over every book.
type Aggregates interface {
	SumMinutesSince(ctx context.Context, since time.Time) (*int, error)
	SumPagesSince(ctx context.Context, since time.Time) (*int, error)
}

// Records lists the sessions of one book.
type Records interface {
	ListByBook(ctx context.Context, bookID string) ([]progress.Progress, error)
}

// Source is the live query a chart stream follows.
type Source interface {
	Subscribe(ctx context.Context, bookID string) (*progress.Subscription, error)
}
