// Package sqlite is the default persistence layer: a single SQLite file
// accessed through database/sql and mattn/go-sqlite3.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

// pragmas applied through the DSN so every pooled connection gets them
const pragmas = "_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=ON&_busy_timeout=30000&_txlock=immediate"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS contacts (
		contact_id INTEGER PRIMARY KEY AUTOINCREMENT,
		name       TEXT NOT NULL,
		email      TEXT NOT NULL,
		date       TEXT NOT NULL,
		image      TEXT,
		author_id  TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_contacts_author_id ON contacts (author_id)`,
	`CREATE TABLE IF NOT EXISTS users (
		user_id   INTEGER PRIMARY KEY AUTOINCREMENT,
		auth0_sub TEXT NOT NULL UNIQUE,
		nickname  TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_users_nickname ON users (nickname)`,
}

// DSN appends the connection pragmas to a database file path
func DSN(path string) string {
	if strings.Contains(path, "?") {
		return path + "&" + pragmas
	}
	return path + "?" + pragmas
}

// Open opens (creating if needed) the database file and applies the schema
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", DSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// One connection: SQLite has a single writer and this keeps
	// read-modify-write transactions strictly serialised.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	if err := Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	log.Info().Str("path", path).Msg("SQLite database ready")
	return db, nil
}

// Migrate creates the tables and indexes if they do not exist
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("could not migrate: %w", err)
		}
	}
	return nil
}
