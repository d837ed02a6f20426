package database

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/model"
)

// Migrations holds the Postgres schema. Files ending in _rollback.sql undo
// the migration of the same name.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationNames returns the forward migrations in the order they apply.
func MigrationNames() ([]string, error) {
	entries, err := fs.ReadDir(Migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if !strings.HasSuffix(name, ".sql") || strings.HasSuffix(name, "_rollback.sql") {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// ReadMigration returns the SQL of a migration file.
func ReadMigration(name string) (string, error) {
	b, err := Migrations.ReadFile("migrations/" + name)
	if err != nil {
		return "", fmt.Errorf("failed to read migration file %s: %w", name, err)
	}
	return string(b), nil
}

// RunMigrations brings the schema up to date. sqlite uses GORM auto-migration;
// Postgres applies the embedded SQL files once each.
func RunMigrations(db *gorm.DB, log *log.Logger) error {
	if db.Dialector.Name() == "sqlite" {
		log.Debug("using GORM auto-migration for SQLite")
		return db.AutoMigrate(
			&model.User{},
			&model.Favorite{},
			&model.RecipeCacheEntry{},
			&model.RevokedToken{},
		)
	}

	names, err := MigrationNames()
	if err != nil {
		return err
	}

	// Create migrations table if it doesn't exist (PostgreSQL)
	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL UNIQUE,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`).Error; err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	for _, name := range names {
		// Check if migration has already been applied
		var count int64
		if err := db.Table("schema_migrations").Where("name = ?", name).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
		if count > 0 {
			log.Debug("skipping migration, already applied", "name", name)
			continue
		}

		content, err := ReadMigration(name)
		if err != nil {
			return err
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(content).Error; err != nil {
				return fmt.Errorf("failed to execute migration %s: %w", name, err)
			}
			if err := tx.Exec("INSERT INTO schema_migrations (name) VALUES (?)", name).Error; err != nil {
				return fmt.Errorf("failed to record migration %s: %w", name, err)
			}
			return nil
		})
		if err != nil {
			return err
		}

		log.Info("applied migration", "name", name)
	}

	return nil
}
