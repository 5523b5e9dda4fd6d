package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"cspmconsole/logger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/mattn/go-sqlite3"
)

var DB *sql.DB

// InitDB opens the SQLite database, enables foreign keys and applies any
// pending schema migrations from database/migrations.
func InitDB(dataSourceName string) error {
	var err error
	dbDir := filepath.Dir(dataSourceName)
	if dbDir != "." && dbDir != "" {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			logger.Error("Failed to create database directory %s: %v", dbDir, err)
			return fmt.Errorf("failed to create database directory %s: %w", dbDir, err)
		}
	}

	DB, err = sql.Open("sqlite3", dataSourceName+"?_foreign_keys=on")
	if err != nil {
		logger.Error("Failed to open database: %v", err)
		return fmt.Errorf("failed to open database: %w", err)
	}
	if err = DB.Ping(); err != nil {
		logger.Error("Failed to connect to database: %v", err)
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	migrationsPath := "file://database/migrations"
	m, err := migrate.New(
		migrationsPath,
		fmt.Sprintf("sqlite3://%s", dataSourceName+"?_foreign_keys=on"),
	)
	if err != nil {
		logger.Error("Failed to initialize migrations: %v (path: %s)", err, migrationsPath)
		return fmt.Errorf("failed to initialize migrations: %w", err)
	}

	logger.Info("Applying database migrations...")
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		logger.Error("Failed to apply migrations: %v", err)
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	logger.Info("Database migrations applied successfully (or no changes).")
	return nil
}

// InitTestDB opens an in-memory database and applies the schema directly,
// bypassing the file-based migration source. Intended for package tests.
func InitTestDB(schema string) error {
	var err error
	DB, err = sql.Open("sqlite3", "file::memory:?cache=shared&_foreign_keys=on")
	if err != nil {
		return fmt.Errorf("failed to open in-memory database: %w", err)
	}
	if err = DB.Ping(); err != nil {
		return fmt.Errorf("failed to connect to in-memory database: %w", err)
	}
	if _, err := DB.Exec(schema); err != nil {
		return fmt.Errorf("failed to apply test schema: %w", err)
	}
	return nil
}
