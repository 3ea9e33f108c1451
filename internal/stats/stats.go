package stats

import (
	"fmt"
	"time"

	"bookdiary/internal/progress"
)

const chartDays = 7

// Totals is the amount read since the start of the week.
type Totals struct {
	Minutes  int    `json:"minutes"`
	Pages    int    `json:"pages"`
	TimeRead string `json:"time_read"`
}

func newTotals(minutes, pages int) Totals {
	return Totals{Minutes: minutes, Pages: pages, TimeRead: FormatMinutes(minutes)}
}

// DailyPoint is one day of a chart series. Date is midnight of that day.
type DailyPoint struct {
	Date  time.Time `json:"date"`
	Value int       `json:"value"`
}

// Metric selects the quantity a series is built from.
type Metric func(progress.Progress) int

var (
	Pages   Metric = func(p progress.Progress) int { return p.PagesRead }
	Minutes Metric = func(p progress.Progress) int { return p.MinutesRead }
)

// WeekStart returns Monday 00:00 of the week containing now, in now's location.
func WeekStart(now time.Time) time.Time {
	offset := (int(now.Weekday()) + 6) % 7
	y, m, d := now.Date()
	return time.Date(y, m, d-offset, 0, 0, 0, 0, now.Location())
}

// WeeklyTotals sums the records dated on or after WeekStart(now).
func WeeklyTotals(records []progress.Progress, now time.Time) Totals {
	start := WeekStart(now)
	var minutes, pages int
	for _, r := range records {
		if r.Date.Before(start) {
			continue
		}
		minutes += r.MinutesRead
		pages += r.PagesRead
	}
	return newTotals(minutes, pages)
}

type dayKey struct {
	year  int
	month time.Month
	day   int
}

func keyOf(t time.Time) dayKey {
	y, m, d := t.Date()
	return dayKey{y, m, d}
}

// LastSevenDays buckets metric by calendar day over the seven days ending
// today. Points are oldest first and days without records are zero.
func LastSevenDays(records []progress.Progress, now time.Time, metric Metric) []DailyPoint {
	loc := now.Location()
	y, m, d := now.Date()

	points := make([]DailyPoint, chartDays)
	index := make(map[dayKey]int, chartDays)
	for i := range points {
		day := time.Date(y, m, d-(chartDays-1-i), 0, 0, 0, 0, loc)
		points[i].Date = day
		index[keyOf(day)] = i
	}

	for _, r := range records {
		if i, ok := index[keyOf(r.Date.In(loc))]; ok {
			points[i].Value += metric(r)
		}
	}
	return points
}

// PagesLastSevenDays is LastSevenDays over pages read.
func PagesLastSevenDays(records []progress.Progress, now time.Time) []DailyPoint {
	return LastSevenDays(records, now, Pages)
}

// MinutesLastSevenDays is LastSevenDays over minutes read.
func MinutesLastSevenDays(records []progress.Progress, now time.Time) []DailyPoint {
	return LastSevenDays(records, now, Minutes)
}

// FormatMinutes renders a duration as "H h M m".
func FormatMinutes(minutes int) string {
	return fmt.Sprintf("%d h %d m", minutes/60, minutes%60)
}

// Charts is everything the book detail view plots.
type Charts struct {
	BookID      string       `json:"book_id"`
	HasProgress bool         `json:"has_progress"`
	Pages       []DailyPoint `json:"pages"`
	Minutes     []DailyPoint `json:"minutes"`
	Week        Totals       `json:"week"`
}

// BuildCharts derives the chart series and weekly totals of one book from its records.
func BuildCharts(bookID string, records []progress.Progress, now time.Time) Charts {
	return Charts{
		BookID:      bookID,
		HasProgress: len(records) > 0,
		Pages:       PagesLastSevenDays(records, now),
		Minutes:     MinutesLastSevenDays(records, now),
		Week:        WeeklyTotals(records, now),
	}
}
