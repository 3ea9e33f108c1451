package stats

import (
	"context"
	"fmt"
	"time"

	"bookdiary/internal/progress"
)

type Service struct {
	aggregates Aggregates
	records    Records
	loc        *time.Location
	now        func() time.Time
}

// NewService builds the stats service. Days and weeks are computed in loc.
func NewService(aggregates Aggregates, records Records, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{aggregates: aggregates, records: records, loc: loc, now: time.Now}
}

// Now is the reference instant for every aggregate, in the service location.
func (s *Service) Now() time.Time {
	return s.now().In(s.loc)
}

// ThisWeek totals every session since Monday. No sessions reads as zero.
func (s *Service) ThisWeek(ctx context.Context) (Totals, error) {
	since := WeekStart(s.Now())

	minutes, err := s.aggregates.SumMinutesSince(ctx, since)
	if err != nil {
		return Totals{}, fmt.Errorf("sum minutes: %w", err)
	}
	pages, err := s.aggregates.SumPagesSince(ctx, since)
	if err != nil {
		return Totals{}, fmt.Errorf("sum pages: %w", err)
	}
	return newTotals(orZero(minutes), orZero(pages)), nil
}

// BookCharts builds the charts of one book from its current sessions.
func (s *Service) BookCharts(ctx context.Context, bookID string) (Charts, error) {
	records, err := s.records.ListByBook(ctx, bookID)
	if err != nil {
		return Charts{}, err
	}
	return s.Charts(bookID, records), nil
}

// Charts builds charts from an already loaded record set.
func (s *Service) Charts(bookID string, records []progress.Progress) Charts {
	return BuildCharts(bookID, records, s.Now())
}

func orZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
