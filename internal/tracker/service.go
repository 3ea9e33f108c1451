package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"bookdiary/internal/book"
	"bookdiary/internal/progress"
)

// ErrBookNotUpdated means the session was recorded but the book's page
// marker could not be moved. The session is kept.
var ErrBookNotUpdated = errors.New("progress recorded but book not updated")

const (
	outcomeRecorded = "recorded"
	outcomePartial  = "book_not_updated"
	outcomeFailed   = "failed"
)

// Entry is one reading session as reported by the reader.
type Entry struct {
	BookID      string
	CurrentPage int
	// PageCount corrects the book's total page count when positive.
	PageCount int
	Minutes   int
}

type Result struct {
	Progress progress.Progress `json:"progress"`
	Book     book.Book         `json:"book"`
}

type Service struct {
	books    Books
	sessions Sessions
	metrics  *Metrics
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(books Books, sessions Sessions, metrics *Metrics, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{books: books, sessions: sessions, metrics: metrics, logger: logger, now: time.Now}
}

// LogProgress records a session for the book and moves its current page.
// Pages read is the forward distance from the previous current page; moving
// backwards records zero pages. The session is written first. When that
// fails the book is left alone. When the book update fails afterwards the
// session stays and the returned error wraps ErrBookNotUpdated.
func (s *Service) LogProgress(ctx context.Context, e Entry) (Result, error) {
	b, err := s.books.Get(ctx, e.BookID)
	if err != nil {
		return Result{}, err
	}

	p := progress.Progress{
		BookID:      b.ID,
		Date:        s.now(),
		PagesRead:   progress.PagesAdvanced(b.CurrentPage, e.CurrentPage),
		MinutesRead: e.Minutes,
	}
	if err := s.sessions.Insert(ctx, &p); err != nil {
		s.metrics.observe(outcomeFailed, 0, 0)
		return Result{}, fmt.Errorf("insert progress: %w", err)
	}

	if err := s.books.SetPages(ctx, b.ID, e.CurrentPage, e.PageCount); err != nil {
		s.metrics.observe(outcomePartial, p.PagesRead, p.MinutesRead)
		s.logger.WarnContext(ctx, "progress recorded but book not updated",
			"book_id", b.ID, "progress_id", p.ID, "current_page", e.CurrentPage, "error", err)
		return Result{Progress: p, Book: b}, fmt.Errorf("%w: %w", ErrBookNotUpdated, err)
	}
	s.metrics.observe(outcomeRecorded, p.PagesRead, p.MinutesRead)

	b.CurrentPage = e.CurrentPage
	if e.PageCount > 0 {
		b.PageCount = e.PageCount
	}
	s.logger.DebugContext(ctx, "progress logged",
		"book_id", b.ID, "pages_read", p.PagesRead, "minutes_read", p.MinutesRead)
	return Result{Progress: p, Book: b}, nil
}

// History returns the sessions logged for a book.
func (s *Service) History(ctx context.Context, bookID string) ([]progress.Progress, error) {
	if _, err := s.books.Get(ctx, bookID); err != nil {
		return nil, err
	}
	return s.sessions.ListByBook(ctx, bookID)
}
