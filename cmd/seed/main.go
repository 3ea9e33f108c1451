package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"bookdiary/internal/book"
	"bookdiary/internal/config"
	"bookdiary/internal/platform/postgres"
	"bookdiary/internal/progress"

	"github.com/jackc/pgx/v5"
)

func main() {
	var (
		count = flag.Int("books", 12, "Number of demo books")
		days  = flag.Int("days", 7, "Days of reading history per book")
	)
	flag.Parse()

	if err := run(*count, *days); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run(count, days int) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := cfg.NewLogger()
	ctx := context.Background()

	pool, err := postgres.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	repo := book.NewPostgresRepo(pool, cfg.DBTimeout)
	now := time.Now().In(cfg.Location)
	rng := rand.New(rand.NewSource(now.UnixNano()))

	books, sessions := generate(rng, count, days, now)
	logger.Info("generated demo data", "books", len(books), "sessions", len(sessions))

	inserted := 0
	for i := range books {
		if err := repo.Insert(ctx, &books[i]); err != nil {
			if errors.Is(err, book.ErrAlreadyExists) {
				continue
			}
			return fmt.Errorf("insert book %q: %w", books[i].Title, err)
		}
		inserted++
	}

	copied, err := pool.CopyFrom(ctx,
		pgx.Identifier{"progress"},
		[]string{"book_id", "date", "pages_read", "minutes_read"},
		pgx.CopyFromSlice(len(sessions), func(i int) ([]any, error) {
			s := sessions[i]
			return []any{s.BookID, s.Date.UnixMilli(), s.PagesRead, s.MinutesRead}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("copy progress: %w", err)
	}

	logger.Info("seed complete", "books_inserted", inserted, "sessions_inserted", copied)
	return nil
}

// generate builds demo books with a reading history ending today. Each
// book's current page equals one plus the pages of its sessions.
func generate(rng *rand.Rand, count, days int, now time.Time) ([]book.Book, []progress.Progress) {
	publishers := []string{"Penguin", "HarperCollins", "Ace", "Vintage", "Tor", "Orbit"}
	authors := []string{"Ursula K. Le Guin", "Frank Herbert", "Octavia E. Butler", "Italo Calvino", "Ted Chiang", "N. K. Jemisin"}

	var (
		books    []book.Book
		sessions []progress.Progress
	)
	for i := 0; i < count; i++ {
		title := fmt.Sprintf("The %s %s, Volume %d", getRandomWord(rng), getRandomWord(rng), i+1)
		author := []string{authors[rng.Intn(len(authors))]}
		pages := 150 + rng.Intn(600)
		b := book.Book{
			Title:         title,
			Authors:       author,
			Publisher:     publishers[rng.Intn(len(publishers))],
			PublishedDate: fmt.Sprintf("%d", 1960+rng.Intn(64)),
			PageCount:     pages,
			CurrentPage:   1,
		}
		b.ID = book.ManualID(b.Title, b.Authors, b.PageCount)

		for d := days - 1; d >= 0; d-- {
			if rng.Intn(3) == 0 {
				continue
			}
			read := min(5+rng.Intn(40), pages-b.CurrentPage)
			if read <= 0 {
				break
			}
			y, m, day := now.Date()
			sessions = append(sessions, progress.Progress{
				BookID:      b.ID,
				Date:        time.Date(y, m, day-d, 18+rng.Intn(5), rng.Intn(60), 0, 0, now.Location()),
				PagesRead:   read,
				MinutesRead: read * (1 + rng.Intn(3)),
			})
			b.CurrentPage += read
		}
		books = append(books, b)
	}
	return books, sessions
}

func getRandomWord(rng *rand.Rand) string {
	words := []string{"Silent", "Hidden", "Lost", "Golden", "Dispossessed", "River", "Garden", "Tower", "Archive", "Harbor", "Winter", "Lantern"}
	return words[rng.Intn(len(words))]
}
