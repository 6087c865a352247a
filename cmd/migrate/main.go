// Package main runs the schema-and-trigger bootstrap: it enables the
// postgis extension, creates the company table, and installs the geometry
// derivation trigger. Every statement is idempotent-safe and goose tracks
// applied versions, so rerunning against any database state is harmless.
//
// Usage:
//
//	migrate [up|status]
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"

	"github.com/geosimple/geo-registry/internal/config"
	"github.com/geosimple/geo-registry/migrations"
)

func main() {
	_ = godotenv.Load(".env.local")

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL())
	if err != nil {
		slog.Error("open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		slog.Error("create goose provider", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	switch command {
	case "up":
		results, err := provider.Up(ctx)
		if err != nil {
			slog.Error("run migrations", "error", err)
			os.Exit(1)
		}
		for _, res := range results {
			slog.Info("applied", "migration", res.Source.Path, "duration", res.Duration)
		}
		slog.Info("bootstrap complete", "applied", len(results))
	case "status":
		statuses, err := provider.Status(ctx)
		if err != nil {
			slog.Error("migration status", "error", err)
			os.Exit(1)
		}
		for _, st := range statuses {
			fmt.Printf("%-10s %s\n", st.State, st.Source.Path)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q (want up or status)\n", command)
		os.Exit(2)
	}
}
