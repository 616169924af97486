// Package db provides database schema migration management.
package db

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	apperrors "github.com/kimhsiao/taskline/internal/errors"
)

// migration is a single versioned schema change. Migrations are embedded in
// the binary and applied in version order.
type migration struct {
	version     int
	description string
	sql         string
}

var migrations = []migration{
	{
		version:     1,
		description: "initial_schema",
		sql: `
		CREATE TABLE IF NOT EXISTS todos (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL CHECK(length(title) > 0),
			completed INTEGER NOT NULL DEFAULT 0,
			position INTEGER NOT NULL CHECK(position >= 1),
			priority TEXT NOT NULL DEFAULT 'medium',
			tags TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_todos_position ON todos(position);

		CREATE TABLE IF NOT EXISTS tags (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL CHECK(length(name) > 0),
			color TEXT NOT NULL DEFAULT '#3B82F6',
			created_at INTEGER NOT NULL
		);
		`,
	},
}

// Migrate applies all pending migrations. Each migration runs in its own
// transaction together with its schema_version bookkeeping row.
func Migrate(db *sqlx.DB) error {
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY CHECK(version > 0),
			applied_at INTEGER NOT NULL,
			description TEXT NOT NULL
		);`); err != nil {
		return apperrors.Wrap(apperrors.ErrMigration, "creating schema_version table", err)
	}

	var current int
	if err := db.Get(&current, "SELECT COALESCE(MAX(version), 0) FROM schema_version"); err != nil {
		return apperrors.Wrap(apperrors.ErrMigration, "reading schema version", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := apply(db, m); err != nil {
			return apperrors.Wrap(apperrors.ErrMigration,
				fmt.Sprintf("applying migration v%d (%s)", m.version, m.description), err)
		}
	}

	return nil
}

func apply(db *sqlx.DB, m migration) error {
	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(m.sql); err != nil {
		return fmt.Errorf("executing migration SQL: %w", err)
	}

	if _, err := tx.Exec(
		"INSERT INTO schema_version (version, applied_at, description) VALUES (?, ?, ?)",
		m.version, time.Now().Unix(), m.description,
	); err != nil {
		return fmt.Errorf("recording migration: %w", err)
	}

	return tx.Commit()
}
