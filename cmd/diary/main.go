// Command diary is the terminal front end of the reading diary.
package main

import (
	"context"
	"fmt"
	"os"

	"bookdiary/internal/app"
	"bookdiary/internal/config"

	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	if err := rootCmd(openServices).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func openServices(ctx context.Context) (services, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return services{}, nil, err
	}
	logger := cfg.NewLogger()

	// The CLI does not expose metrics.
	a, err := app.New(ctx, cfg, logger, prometheus.NewRegistry())
	if err != nil {
		return services{}, nil, err
	}
	return services{
		books:   a.Books,
		tracker: a.Tracker,
		stats:   a.Stats,
		search:  a.Searches.For("cli"),
		catalog: a.Catalog,
	}, a.Close, nil
}
