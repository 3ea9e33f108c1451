package tracker

import (
	"context"

	"bookdiary/internal/book"
	"bookdiary/internal/progress"
)

// Books is the part of the book service the workflow drives.
type Books interface {
	Get(ctx context.Context, id string) (book.Book, error)
	SetPages(ctx context.Context, id string, currentPage, pageCount int) error
}

// Sessions records reading sessions.
type Sessions interface {
	Insert(ctx context.Context, p *progress.Progress) error
	ListByBook(ctx context.Context, bookID string) ([]progress.Progress, error)
}
