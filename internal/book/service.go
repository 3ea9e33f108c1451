package book

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Service provides book-related business logic.
type Service struct {
	repo     Repository
	progress ProgressRemover
}

// NewService creates a new book service.
func NewService(repo Repository, progress ProgressRemover) *Service {
	return &Service{repo: repo, progress: progress}
}

// List returns tracked books ordered by title.
func (s *Service) List(ctx context.Context, q ListQuery) ([]Book, error) {
	q.Q = strings.TrimSpace(q.Q)
	return s.repo.List(ctx, q)
}

// Get returns a book by its id.
func (s *Service) Get(ctx context.Context, id string) (Book, error) {
	return s.repo.GetByID(ctx, id)
}

// Add starts tracking a book imported from the catalog.
func (s *Service) Add(ctx context.Context, b Book) (Book, error) {
	b.Normalize()
	if err := s.repo.Insert(ctx, &b); err != nil {
		return Book{}, err
	}
	return b, nil
}

// AddCustom starts tracking a book entered by hand. Its id is derived from
// title, authors and page count.
func (s *Service) AddCustom(ctx context.Context, b Book) (Book, error) {
	b.ID = ManualID(b.Title, b.Authors, b.PageCount)
	return s.Add(ctx, b)
}

// SetPages moves the current page marker and optionally corrects the page count.
func (s *Service) SetPages(ctx context.Context, id string, currentPage, pageCount int) error {
	return s.repo.UpdatePages(ctx, id, currentPage, pageCount)
}

// Remove deletes the book and then every reading session it owns.
// Sessions are swept even when the book is already gone, so retrying a
// Remove that failed half way clears the orphans and still reports ErrNotFound.
func (s *Service) Remove(ctx context.Context, id string) error {
	deleteErr := s.repo.Delete(ctx, id)
	if deleteErr != nil && !errors.Is(deleteErr, ErrNotFound) {
		return deleteErr
	}
	if err := s.progress.DeleteByBook(ctx, id); err != nil {
		return fmt.Errorf("delete progress of %s: %w", id, err)
	}
	return deleteErr
}
