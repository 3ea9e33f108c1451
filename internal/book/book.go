package book

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"bookdiary/internal/platform/googlebooks"
)

var (
	// ErrNotFound is returned when a book is not found.
	ErrNotFound = errors.New("book not found")
	// ErrAlreadyExists is returned when adding a book whose id is already tracked.
	ErrAlreadyExists = errors.New("book already exists")
)

// Book represents a tracked book.
type Book struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Subtitle      string    `json:"subtitle"`
	Description   string    `json:"description"`
	Authors       []string  `json:"authors"`
	Categories    []string  `json:"categories"`
	ISBN          []string  `json:"isbn"`
	Thumbnail     string    `json:"thumbnail"`
	Publisher     string    `json:"publisher"`
	PublishedDate string    `json:"published_date"`
	AverageRating float64   `json:"average_rating"`
	RatingsCount  int       `json:"ratings_count"`
	PageCount     int       `json:"page_count"`
	CurrentPage   int       `json:"current_page"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Progress is the read fraction currentPage/pageCount.
func (b Book) Progress() float64 {
	if b.PageCount <= 0 {
		return 0
	}
	return float64(b.CurrentPage) / float64(b.PageCount)
}

// PublishingDetails joins publisher and published date, skipping empty parts.
func (b Book) PublishingDetails() string {
	parts := make([]string, 0, 2)
	if b.Publisher != "" {
		parts = append(parts, b.Publisher)
	}
	if b.PublishedDate != "" {
		parts = append(parts, b.PublishedDate)
	}
	return strings.Join(parts, ", ")
}

// ManualID derives the identity of a book entered by hand.
func ManualID(title string, authors []string, pageCount int) string {
	return title + strings.Join(authors, ",") + strconv.Itoa(pageCount)
}

// ClampPage keeps page inside [1, pageCount].
func ClampPage(page, pageCount int) int {
	if page > pageCount {
		page = pageCount
	}
	if page < 1 {
		page = 1
	}
	return page
}

// FromVolume maps a catalog search result to a Book that has not been started.
func FromVolume(v googlebooks.Volume) Book {
	info := v.VolumeInfo
	return Book{
		ID:            v.ID,
		Title:         info.Title,
		Subtitle:      info.Subtitle,
		Description:   info.Description,
		Authors:       nonNil(info.Authors),
		Categories:    nonNil(info.Categories),
		ISBN:          info.ISBNs(),
		Thumbnail:     info.Thumbnail(),
		Publisher:     info.Publisher,
		PublishedDate: info.PublishedDate,
		AverageRating: info.AverageRating,
		RatingsCount:  info.RatingsCount,
		PageCount:     info.PageCount,
		CurrentPage:   1,
	}
}

// Normalize fills nil slices and the start page so a Book is always fully populated.
func (b *Book) Normalize() {
	b.Authors = nonNil(b.Authors)
	b.Categories = nonNil(b.Categories)
	b.ISBN = nonNil(b.ISBN)
	if b.CurrentPage < 1 {
		b.CurrentPage = 1
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
