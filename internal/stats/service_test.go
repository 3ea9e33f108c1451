package stats

import (
	"context"
	"errors"
	"testing"
	"time"

	"bookdiary/internal/progress"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAggregates struct {
	mock.Mock
}

func (m *mockAggregates) SumMinutesSince(ctx context.Context, since time.Time) (*int, error) {
	args := m.Called(ctx, since)
	v, _ := args.Get(0).(*int)
	return v, args.Error(1)
}

func (m *mockAggregates) SumPagesSince(ctx context.Context, since time.Time) (*int, error) {
	args := m.Called(ctx, since)
	v, _ := args.Get(0).(*int)
	return v, args.Error(1)
}

type mockRecords struct {
	mock.Mock
}

func (m *mockRecords) ListByBook(ctx context.Context, bookID string) ([]progress.Progress, error) {
	args := m.Called(ctx, bookID)
	v, _ := args.Get(0).([]progress.Progress)
	return v, args.Error(1)
}

func newTestService(agg Aggregates, rec Records, now time.Time) *Service {
	svc := NewService(agg, rec, time.UTC)
	svc.now = func() time.Time { return now }
	return svc
}

func intPtr(v int) *int { return &v }

func TestService_ThisWeek(t *testing.T) {
	now := day(8, 14)
	monday := day(6, 0)

	t.Run("sums", func(t *testing.T) {
		agg := new(mockAggregates)
		agg.On("SumMinutesSince", mock.Anything, monday).Return(intPtr(135), nil)
		agg.On("SumPagesSince", mock.Anything, monday).Return(intPtr(42), nil)

		totals, err := newTestService(agg, nil, now).ThisWeek(context.Background())
		require.NoError(t, err)
		assert.Equal(t, Totals{Minutes: 135, Pages: 42, TimeRead: "2 h 15 m"}, totals)
		agg.AssertExpectations(t)
	})

	t.Run("absent sums read as zero", func(t *testing.T) {
		agg := new(mockAggregates)
		agg.On("SumMinutesSince", mock.Anything, monday).Return(nil, nil)
		agg.On("SumPagesSince", mock.Anything, monday).Return(nil, nil)

		totals, err := newTestService(agg, nil, now).ThisWeek(context.Background())
		require.NoError(t, err)
		assert.Equal(t, Totals{Minutes: 0, Pages: 0, TimeRead: "0 h 0 m"}, totals)
	})

	t.Run("store error", func(t *testing.T) {
		agg := new(mockAggregates)
		agg.On("SumMinutesSince", mock.Anything, monday).Return(nil, errors.New("db down"))

		_, err := newTestService(agg, nil, now).ThisWeek(context.Background())
		assert.ErrorContains(t, err, "sum minutes")
		agg.AssertNotCalled(t, "SumPagesSince", mock.Anything, mock.Anything)
	})
}

func TestService_BookCharts(t *testing.T) {
	rec := new(mockRecords)
	rec.On("ListByBook", mock.Anything, "b1").Return(scenario(), nil)
	rec.On("ListByBook", mock.Anything, "broken").Return(nil, errors.New("db down"))
	svc := newTestService(nil, rec, day(9, 18))

	charts, err := svc.BookCharts(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, "b1", charts.BookID)
	assert.Equal(t, 10, charts.Pages[3].Value)

	_, err = svc.BookCharts(context.Background(), "broken")
	assert.Error(t, err)
}

func TestService_NowUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*3600)
	svc := NewService(nil, nil, loc)
	svc.now = func() time.Time { return time.Date(2024, time.May, 8, 23, 0, 0, 0, time.UTC) }

	now := svc.Now()
	assert.Equal(t, loc, now.Location())
	assert.Equal(t, 9, now.Day())
}
