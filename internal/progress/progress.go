package progress

import (
	"errors"
	"time"
)

// ErrSubscriptionClosed is returned when subscribing on a closed Feed.
var ErrSubscriptionClosed = errors.New("progress feed closed")

// Progress is one logged reading session. Records are never updated.
type Progress struct {
	ID          int64     `json:"id"`
	BookID      string    `json:"book_id"`
	Date        time.Time `json:"date"`
	PagesRead   int       `json:"pages_read"`
	MinutesRead int       `json:"minutes_read"`
}

// PagesAdvanced is the page delta of a session, never negative.
func PagesAdvanced(previousPage, newPage int) int {
	return max(0, newPage-previousPage)
}
