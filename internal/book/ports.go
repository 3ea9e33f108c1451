package book

import (
	"context"
)

// ListQuery filters and pages the library. A zero Limit returns every match.
type ListQuery struct {
	// Q keeps books whose title contains it, ignoring case.
	Q     string
	After CursorData
	Limit int
}

//go:generate mockgen -source=ports.go -destination=mock_ports_test.go -package=book

// Repository defines the contract for book data storage.
type Repository interface {
	List(ctx context.Context, q ListQuery) ([]Book, error)
	GetByID(ctx context.Context, id string) (Book, error)
	Insert(ctx context.Context, book *Book) error
	UpdatePages(ctx context.Context, id string, currentPage, pageCount int) error
	Delete(ctx context.Context, id string) error
}

// ProgressRemover deletes the reading sessions owned by a book.
type ProgressRemover interface {
	DeleteByBook(ctx context.Context, bookID string) error
}
