// Package main is the entry point for the Alexander SigKit database migration tool.
// It applies the operator-account and access-key schema to either backend
// configured for the signing proxy and admin CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/prn-tf/alexander-sigkit/internal/config"
	"github.com/prn-tf/alexander-sigkit/internal/repository/postgres"
	"github.com/prn-tf/alexander-sigkit/internal/repository/sqlite"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version":
		fmt.Printf("Alexander SigKit Migration Tool\n")
		fmt.Printf("Version: %s\n", Version)
		fmt.Printf("Build Time: %s\n", BuildTime)
		fmt.Printf("Git Commit: %s\n", GitCommit)

	case "up":
		if err := runMigrations(); err != nil {
			fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("migrations applied")

	case "status":
		if err := printStatus(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to read migration status: %v\n", err)
			os.Exit(1)
		}

	case "down", "create", "force":
		fmt.Fprintf(os.Stderr, "%s: not supported — schema is a single idempotent migration, see 'up'\n", command)
		os.Exit(1)

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load("")
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	return cfg, nil
}

func runMigrations() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()

	if cfg.Database.IsEmbedded() {
		if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}

		db, err := sqlite.NewDB(ctx, sqlite.Config{
			Path:            cfg.Database.Path,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			JournalMode:     cfg.Database.JournalMode,
			BusyTimeout:     cfg.Database.BusyTimeout,
			CacheSize:       cfg.Database.CacheSize,
			SynchronousMode: cfg.Database.SynchronousMode,
		}, log.Logger)
		if err != nil {
			return fmt.Errorf("failed to connect to SQLite: %w", err)
		}
		defer db.Close()

		return db.Migrate(ctx)
	}

	db, err := postgres.NewDB(ctx, cfg.Database, log.Logger)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer db.Close()

	return db.Migrate(ctx)
}

func printStatus() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()

	if cfg.Database.IsEmbedded() {
		db, err := sqlite.NewDB(ctx, sqlite.DefaultConfig(cfg.Database.Path), log.Logger)
		if err != nil {
			return fmt.Errorf("failed to connect to SQLite: %w", err)
		}
		defer db.Close()

		var version int
		row := db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`)
		if err := row.Scan(&version); err != nil {
			fmt.Println("schema_migrations table not found — database is not yet migrated")
			return nil
		}
		fmt.Printf("driver: sqlite\ncurrent version: %d\n", version)
		return nil
	}

	db, err := postgres.NewDB(ctx, cfg.Database, log.Logger)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer db.Close()

	var version int
	row := db.Pool.QueryRow(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`)
	if err := row.Scan(&version); err != nil {
		fmt.Println("schema_migrations table not found — database is not yet migrated")
		return nil
	}
	fmt.Printf("driver: postgres\ncurrent version: %d\n", version)
	return nil
}

func printUsage() {
	fmt.Println(`Alexander SigKit Migration Tool

Usage:
  alexander-migrate <command>

Commands:
  up          Apply the operator-account and access-key schema
  status      Show the currently applied schema version
  version     Print version information
  help        Show this help message

Configuration is read the same way as alexander-admin and alexander-signproxy
(config file, then environment variables); database.driver selects "sqlite"
or "postgres".

Examples:
  alexander-migrate up
  alexander-migrate status`)
}
