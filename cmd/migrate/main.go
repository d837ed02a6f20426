package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	_ "github.com/lib/pq"

	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/database"
	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/logging"
)

const createMigrationsTable = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		id SERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL UNIQUE,
		applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`

func main() {
	// Parse command line flags
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	flag.Parse()

	logger := logging.New(os.Stderr, os.Getenv("LOG_LEVEL"))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logger.Fatal("DATABASE_URL environment variable is not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		logger.Fatal("failed to connect to database", "err", err)
	}
	defer db.Close()

	if _, err := db.Exec(createMigrationsTable); err != nil {
		logger.Fatal("failed to create migrations table", "err", err)
	}

	if *rollback {
		err = rollbackLast(db, logger)
	} else {
		err = applyAll(db, logger)
	}
	if err != nil {
		logger.Fatal("migration failed", "err", err)
	}
}

func applyAll(db *sql.DB, logger *log.Logger) error {
	names, err := database.MigrationNames()
	if err != nil {
		return err
	}

	for _, name := range names {
		// Check if migration has already been applied
		var applied bool
		if err := db.QueryRow("SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE name = $1)", name).Scan(&applied); err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
		if applied {
			logger.Info("migration already applied", "name", name)
			continue
		}

		content, err := database.ReadMigration(name)
		if err != nil {
			return err
		}
		if err := inTx(db, content, "INSERT INTO schema_migrations (name) VALUES ($1)", name); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", name, err)
		}
		logger.Info("applied migration", "name", name)
	}

	logger.Info("all migrations applied successfully")
	return nil
}

func rollbackLast(db *sql.DB, logger *log.Logger) error {
	// Get the last applied migration
	var name string
	err := db.QueryRow("SELECT name FROM schema_migrations ORDER BY id DESC LIMIT 1").Scan(&name)
	if err == sql.ErrNoRows {
		return fmt.Errorf("no migrations to rollback")
	}
	if err != nil {
		return fmt.Errorf("failed to get last migration: %w", err)
	}

	// Find the rollback file
	content, err := database.ReadMigration(strings.TrimSuffix(name, ".sql") + "_rollback.sql")
	if err != nil {
		return err
	}
	if err := inTx(db, content, "DELETE FROM schema_migrations WHERE name = $1", name); err != nil {
		return fmt.Errorf("failed to roll back %s: %w", name, err)
	}

	logger.Info("rolled back migration", "name", name)
	return nil
}

// inTx executes script and then the bookkeeping statement in one transaction.
func inTx(db *sql.DB, script, record, name string) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(script); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.Exec(record, name); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
