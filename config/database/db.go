package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"scrawl/config"
	"scrawl/pkg/logger"
)

// Open builds the *sql.DB for a durable driver and verifies the connection.
// Postgres gets a short retry loop to ride out network blips at startup.
func Open(cfg config.StorageConfig) (*sql.DB, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		db, err := sql.Open("postgres", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := pingWithRetry(db, 5); err != nil {
			db.Close()
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		logger.Sugar.Info("Successfully connected to the database")
		return db, nil

	case config.DriverSQLite:
		if dir := filepath.Dir(cfg.DSN); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite dir: %w", err)
			}
		}
		db, err := sql.Open("sqlite3", cfg.DSN+"?_journal_mode=WAL")
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, fmt.Errorf("connect sqlite: %w", err)
		}
		return db, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

func pingWithRetry(db *sql.DB, attempts int) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = db.Ping(); err == nil {
			return nil
		}
		logger.Sugar.Infof("Database connection failed, retrying in 2s... (%v)", err)
		time.Sleep(2 * time.Second)
	}
	return err
}
