package postgres

import (
	"context"
	"errors"

	"github.com/dafibh/addressbook/addressbook-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository implements domain.UserRepository using PostgreSQL
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// CreateIfNotExists inserts the user unless the subject is already known (upsert on login)
func (r *UserRepository) CreateIfNotExists(ctx context.Context, auth0Sub, nickname string) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`INSERT INTO users (auth0_sub, nickname) VALUES ($1, $2) ON CONFLICT (auth0_sub) DO NOTHING`,
		auth0Sub, nickname)
	if err != nil {
		return false, domain.NewStorageError("couldn't create the user", err)
	}
	return tag.RowsAffected() == 1, nil
}

// GetByAuth0Sub retrieves a user by their Auth0 subject
func (r *UserRepository) GetByAuth0Sub(ctx context.Context, auth0Sub string) (*domain.User, error) {
	var u domain.User
	err := r.pool.QueryRow(ctx,
		`SELECT user_id, auth0_sub, nickname FROM users WHERE auth0_sub = $1`, auth0Sub,
	).Scan(&u.ID, &u.Auth0Sub, &u.Nickname)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("user", auth0Sub, "user %s not found", auth0Sub)
		}
		return nil, domain.NewStorageError("couldn't get the user", err)
	}
	return &u, nil
}

// ListByNickname returns every user sharing the nickname, oldest first
func (r *UserRepository) ListByNickname(ctx context.Context, nickname string) ([]*domain.User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT user_id, auth0_sub, nickname FROM users WHERE nickname = $1 ORDER BY user_id`, nickname)
	if err != nil {
		return nil, domain.NewStorageError("couldn't list the users", err)
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Auth0Sub, &u.Nickname); err != nil {
			return nil, domain.NewStorageError("couldn't list the users", err)
		}
		users = append(users, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("couldn't list the users", err)
	}
	return users, nil
}
