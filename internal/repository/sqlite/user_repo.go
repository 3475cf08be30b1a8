package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dafibh/addressbook/addressbook-backend/internal/domain"
)

// UserRepository implements domain.UserRepository using SQLite
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateIfNotExists inserts the user unless the subject is already known
func (r *UserRepository) CreateIfNotExists(ctx context.Context, auth0Sub, nickname string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (auth0_sub, nickname) VALUES (?, ?) ON CONFLICT (auth0_sub) DO NOTHING`,
		auth0Sub, nickname)
	if err != nil {
		return false, domain.NewStorageError("couldn't create the user", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, domain.NewStorageError("couldn't create the user", err)
	}
	return n == 1, nil
}

// GetByAuth0Sub retrieves a user by their identity-provider subject
func (r *UserRepository) GetByAuth0Sub(ctx context.Context, auth0Sub string) (*domain.User, error) {
	var u domain.User
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, auth0_sub, nickname FROM users WHERE auth0_sub = ?`, auth0Sub,
	).Scan(&u.ID, &u.Auth0Sub, &u.Nickname)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("user", auth0Sub, "user %s not found", auth0Sub)
		}
		return nil, domain.NewStorageError("couldn't get the user", err)
	}
	return &u, nil
}

// ListByNickname returns every user sharing the nickname, oldest first
func (r *UserRepository) ListByNickname(ctx context.Context, nickname string) ([]*domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id, auth0_sub, nickname FROM users WHERE nickname = ? ORDER BY user_id`, nickname)
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
