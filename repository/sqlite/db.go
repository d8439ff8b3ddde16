// Package sqlite implements the repositories on a local SQLite database.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"threadbrief/config"
)

const schema = `
CREATE TABLE IF NOT EXISTS briefs (
	id TEXT PRIMARY KEY,
	share_url TEXT NOT NULL,
	title TEXT NOT NULL,
	overview TEXT NOT NULL,
	bullets TEXT NOT NULL,
	why_it_matters TEXT NOT NULL DEFAULT '',
	source_type TEXT NOT NULL,
	mode TEXT NOT NULL,
	length TEXT NOT NULL,
	output_language TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS rate_counts (
	identity TEXT NOT NULL,
	day_key TEXT NOT NULL,
	count INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (identity, day_key)
);

CREATE INDEX IF NOT EXISTS idx_briefs_created_at ON briefs(created_at);
`

// InitDB opens the database with WAL journaling and applies the schema.
func InitDB(cfg *config.Config) (*sql.DB, error) {
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL", cfg.Database.Path)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxConnections)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConnections)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	logrus.WithField("path", cfg.Database.Path).Info("Database initialized")
	return db, nil
}

// withRetry retries a write when SQLite reports the database as locked.
func withRetry(fn func() error) error {
	const maxAttempts = 3

	var err error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		err = fn()
		if err == nil || !isLockError(err) {
			return err
		}
		time.Sleep(time.Duration(attempt+1) * 50 * time.Millisecond)
	}
	return err
}

func isLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "database table is locked")
}
