package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSumSince(t *testing.T) {
	since := time.Date(2024, time.May, 6, 0, 0, 0, 0, time.UTC)

	query, args, err := buildSumSince(colMinutesRead, since)
	require.NoError(t, err)
	assert.Contains(t, query, `SUM("minutes_read")`)
	assert.Contains(t, query, `FROM "progress"`)
	assert.Contains(t, query, `"date" >= $1`)
	assert.Equal(t, []any{since.UnixMilli()}, args)
}

func TestBuildListByBook(t *testing.T) {
	query, args, err := buildListByBook("b1")
	require.NoError(t, err)
	assert.Contains(t, query, `"book_id" = $1`)
	assert.Contains(t, query, `ORDER BY "date" ASC`)
	assert.Equal(t, []any{"b1"}, args)
}

func TestBuildInsert(t *testing.T) {
	date := time.Date(2024, time.May, 8, 12, 0, 0, 0, time.UTC)

	query, args, err := buildInsert(Progress{BookID: "b1", Date: date, PagesRead: 15, MinutesRead: 30})
	require.NoError(t, err)
	assert.Contains(t, query, `INSERT INTO "progress"`)
	assert.Contains(t, query, `RETURNING "id"`)
	assert.ElementsMatch(t, []any{"b1", date.UnixMilli(), int64(15), int64(30)}, normalizeInts(args))
}

func TestBuildDeleteByBook(t *testing.T) {
	query, args, err := buildDeleteByBook("b1")
	require.NoError(t, err)
	assert.Contains(t, query, `DELETE FROM "progress"`)
	assert.Contains(t, query, `"book_id" = $1`)
	assert.Equal(t, []any{"b1"}, args)
}

func normalizeInts(args []any) []any {
	out := make([]any, len(args))
	for i, a := range args {
		if v, ok := a.(int); ok {
			out[i] = int64(v)
			continue
		}
		out[i] = a
	}
	return out
}
