package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"bookdiary/internal/config"
	"bookdiary/internal/platform/postgres"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, status, create")
		name    = flag.String("name", "", "Name for 'create' command")
	)
	flag.Parse()

	if err := run(*command, *name); err != nil {
		slog.Error("migration failed", "command", *command, "error", err)
		os.Exit(1)
	}
}

func run(command, name string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.SetDefault(cfg.NewLogger())
	migrationsDir := cfg.MigrationsDir

	if command == "create" {
		if name == "" {
			return fmt.Errorf("name is required for 'create' command")
		}
		if err := goose.Create(nil, migrationsDir, name, "sql"); err != nil {
			return fmt.Errorf("create migration: %w", err)
		}
		slog.Info("migration created", "name", name, "dir", migrationsDir)
		return nil
	}

	pool, err := postgres.Open(context.Background(), cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(nil)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	switch command {
	case "up":
		if err := goose.Up(db, migrationsDir); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		slog.Info("migrations applied successfully", "dir", migrationsDir)
	case "down":
		if err := goose.Down(db, migrationsDir); err != nil {
			return fmt.Errorf("rollback migrations: %w", err)
		}
		slog.Info("migrations rolled back successfully", "dir", migrationsDir)
	case "status":
		if err := goose.Status(db, migrationsDir); err != nil {
			return fmt.Errorf("check migration status: %w", err)
		}
	default:
		return fmt.Errorf("unknown command: %s. Use: up, down, status, create", command)
	}
	return nil
}
