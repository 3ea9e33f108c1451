package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"bookdiary/internal/book"
	"bookdiary/internal/platform/googlebooks"
	"bookdiary/internal/stats"
	"bookdiary/internal/tracker"

	"github.com/spf13/cobra"
)

type library interface {
	List(ctx context.Context, q book.ListQuery) ([]book.Book, error)
	Get(ctx context.Context, id string) (book.Book, error)
	Add(ctx context.Context, b book.Book) (book.Book, error)
}

type progressLogger interface {
	LogProgress(ctx context.Context, e tracker.Entry) (tracker.Result, error)
}

type statsReader interface {
	ThisWeek(ctx context.Context) (stats.Totals, error)
	BookCharts(ctx context.Context, bookID string) (stats.Charts, error)
}

type searcher interface {
	Search(ctx context.Context, query string) ([]book.Book, bool)
}

type volumeFetcher interface {
	GetVolume(ctx context.Context, id string) (*googlebooks.Volume, error)
}

type services struct {
	books   library
	tracker progressLogger
	stats   statsReader
	search  searcher
	catalog volumeFetcher
}

type opener func(ctx context.Context) (services, func(), error)

func rootCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "diary",
		Short:         "Track what you read",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(
		searchCmd(open),
		addCmd(open),
		logCmd(open),
		statsCmd(open),
		booksCmd(open),
	)
	return cmd
}

// withServices opens the services for the duration of fn.
func withServices(cmd *cobra.Command, open opener, fn func(s services) error) error {
	s, closeFn, err := open(cmd.Context())
	if err != nil {
		return err
	}
	defer closeFn()
	return fn(s)
}

func searchCmd(open opener) *cobra.Command {
	var add int
	cmd := &cobra.Command{
		Use:   "search <query...>",
		Short: "Search the online catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, open, func(s services) error {
				ctx := cmd.Context()
				results, _ := s.search.Search(ctx, strings.Join(args, " "))
				out := cmd.OutOrStdout()
				if len(results) == 0 {
					fmt.Fprintln(out, "No books found.")
					return nil
				}

				w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "#\tID\tTITLE\tAUTHORS\tPAGES")
				for i, b := range results {
					fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\n", i+1, b.ID, b.Title, strings.Join(b.Authors, ", "), b.PageCount)
				}
				if err := w.Flush(); err != nil {
					return err
				}

				if add == 0 {
					return nil
				}
				if add < 1 || add > len(results) {
					return fmt.Errorf("--add must be between 1 and %d", len(results))
				}
				added, err := s.books.Add(ctx, results[add-1])
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Added %q (%s).\n", added.Title, added.ID)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&add, "add", 0, "Add the Nth result to the library")
	return cmd
}

func addCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "add <volume-id>",
		Short: "Add a catalog volume to the library by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, open, func(s services) error {
				ctx := cmd.Context()
				v, err := s.catalog.GetVolume(ctx, args[0])
				if err != nil {
					return fmt.Errorf("fetch volume %s: %w", args[0], err)
				}
				added, err := s.books.Add(ctx, book.FromVolume(*v))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %q (%s).\n", added.Title, added.ID)
				return nil
			})
		},
	}
}

func logCmd(open opener) *cobra.Command {
	var pageCount int
	cmd := &cobra.Command{
		Use:   "log <book-id> <current-page> <minutes>",
		Short: "Log a reading session",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("current page: %w", err)
			}
			minutes, err := strconv.Atoi(args[2])
			if err != nil || minutes < 0 {
				return fmt.Errorf("minutes must be a non-negative number, got %q", args[2])
			}
			if pageCount < 0 {
				return fmt.Errorf("--page-count must not be negative")
			}

			return withServices(cmd, open, func(s services) error {
				ctx := cmd.Context()
				b, err := s.books.Get(ctx, args[0])
				if err != nil {
					return err
				}
				total := b.PageCount
				if pageCount > 0 {
					total = pageCount
				}
				if total <= 0 {
					return fmt.Errorf("%q has no page count, pass --page-count", b.Title)
				}

				res, err := s.tracker.LogProgress(ctx, tracker.Entry{
					BookID:      b.ID,
					CurrentPage: book.ClampPage(page, total),
					PageCount:   pageCount,
					Minutes:     minutes,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: page %d of %d (%.0f%%), +%d pages in %s.\n",
					res.Book.Title, res.Book.CurrentPage, res.Book.PageCount, res.Book.Progress()*100,
					res.Progress.PagesRead, stats.FormatMinutes(res.Progress.MinutesRead))
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&pageCount, "page-count", 0, "Correct the book's total page count")
	return cmd
}

func statsCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "stats [book-id]",
		Short: "Show this week's totals, or a book's last seven days",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, open, func(s services) error {
				ctx := cmd.Context()
				out := cmd.OutOrStdout()
				if len(args) == 0 {
					totals, err := s.stats.ThisWeek(ctx)
					if err != nil {
						return err
					}
					writeTotals(out, totals)
					return nil
				}

				if _, err := s.books.Get(ctx, args[0]); err != nil {
					return err
				}
				charts, err := s.stats.BookCharts(ctx, args[0])
				if err != nil {
					return err
				}
				writeTotals(out, charts.Week)
				if !charts.HasProgress {
					fmt.Fprintln(out, "No reading sessions yet.")
					return nil
				}
				w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "DAY\tPAGES\tMINUTES")
				for i, p := range charts.Pages {
					fmt.Fprintf(w, "%s\t%d\t%d\n", p.Date.Format("Mon 02 Jan"), p.Value, charts.Minutes[i].Value)
				}
				return w.Flush()
			})
		},
	}
}

func booksCmd(open opener) *cobra.Command {
	var query string
	cmd := &cobra.Command{
		Use:   "books",
		Short: "List the library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, open, func(s services) error {
				books, err := s.books.List(cmd.Context(), book.ListQuery{Q: query})
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(books) == 0 {
					fmt.Fprintln(out, "Your library is empty.")
					return nil
				}
				w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tTITLE\tPROGRESS\tPUBLISHED")
				for _, b := range books {
					fmt.Fprintf(w, "%s\t%s\t%d/%d (%.0f%%)\t%s\n",
						b.ID, b.Title, b.CurrentPage, b.PageCount, b.Progress()*100, b.PublishingDetails())
				}
				return w.Flush()
			})
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "Only books whose title contains this")
	return cmd
}

func writeTotals(out io.Writer, t stats.Totals) {
	fmt.Fprintf(out, "This week: %s, %d pages.\n", t.TimeRead, t.Pages)
}
