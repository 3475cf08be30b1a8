package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS contacts (
		contact_id BIGSERIAL PRIMARY KEY,
		name       TEXT NOT NULL,
		email      TEXT NOT NULL,
		date       TEXT NOT NULL,
		image      TEXT,
		author_id  TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_contacts_author_id ON contacts (author_id)`,
	`CREATE TABLE IF NOT EXISTS users (
		user_id   BIGSERIAL PRIMARY KEY,
		auth0_sub TEXT NOT NULL UNIQUE,
		nickname  TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_users_nickname ON users (nickname)`,
}

// Open connects to PostgreSQL and makes sure the schema exists
func Open(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	log.Info().Msg("Connected to PostgreSQL")
	return pool, nil
}

// Migrate creates the tables and indexes if they are missing
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate schema: %w", err)
		}
	}
	return nil
}
