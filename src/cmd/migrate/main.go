package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"domaintracker/src/helper/env"
	"domaintracker/src/infra/postgres"
)

func main() {
	status := flag.Bool("status", false, "print the migration status instead of applying migrations")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPostgresClient(ctx, postgres.Config{
		Host:     env.GetString("DB_WRITE_HOST", env.GetString("DB_HOST")),
		Port:     env.GetString("DB_WRITE_PORT", env.GetString("DB_PORT", "5432")),
		Database: env.MustGetString("DB_NAME"),
		User:     env.MustGetString("DB_USER"),
		Password: env.MustGetString("DB_PASSWORD"),
		MaxConns: 2,
	})
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if *status {
		err = postgres.MigrationStatus(ctx, pool)
	} else {
		err = postgres.Migrate(ctx, pool)
	}
	if err != nil {
		logger.Error("Migration failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Migrations done")
}
