package postgres

import (
	"context"
	"errors"

	"github.com/dafibh/addressbook/addressbook-backend/internal/domain"
	"github.com/dafibh/addressbook/addressbook-backend/internal/repository/query"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ContactRepository implements domain.ContactRepository using PostgreSQL
type ContactRepository struct {
	pool *pgxpool.Pool
}

// NewContactRepository creates a new ContactRepository
func NewContactRepository(pool *pgxpool.Pool) *ContactRepository {
	return &ContactRepository{pool: pool}
}

// Create inserts a contact and returns its id
func (r *ContactRepository) Create(ctx context.Context, contact *domain.Contact) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO contacts (name, email, date, image, author_id) VALUES ($1, $2, $3, $4, $5) RETURNING contact_id`,
		contact.Name, contact.Email, contact.Date, stringPtrToPgText(contact.Image), contact.AuthorID,
	).Scan(&id)
	if err != nil {
		return 0, domain.NewStorageError("couldn't insert this combination", err)
	}
	return id, nil
}

// GetByID retrieves a contact regardless of owner
func (r *ContactRepository) GetByID(ctx context.Context, id int64) (*domain.Contact, error) {
	contact, err := scanContact(r.pool.QueryRow(ctx,
		`SELECT `+query.ContactColumns+` FROM contacts WHERE contact_id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("contact", "", "contact %d not found", id)
		}
		return nil, domain.NewStorageError("couldn't get the contact", err)
	}
	return contact, nil
}

// Update applies the patch to the contact owned by authorID. The row is
// locked for the duration of the transaction.
func (r *ContactRepository) Update(ctx context.Context, id int64, authorID string, patch domain.ContactPatch) (*domain.Contact, error) {
	stmt, args, err := query.UpdateContact(query.Postgres, id, authorID, patch.Fields())
	if err != nil {
		return nil, err
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, domain.NewStorageError("couldn't start the update", err)
	}
	defer tx.Rollback(ctx)

	current, err := scanContact(tx.QueryRow(ctx,
		`SELECT `+query.ContactColumns+` FROM contacts WHERE contact_id = $1 AND author_id = $2 FOR UPDATE`, id, authorID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notOwned(id)
		}
		return nil, domain.NewStorageError("couldn't update the contact", err)
	}

	tag, err := tx.Exec(ctx, stmt, args...)
	if err != nil {
		return nil, domain.NewStorageError("couldn't update the contact", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, notOwned(id)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.NewStorageError("couldn't update the contact", err)
	}

	updated := patch.Apply(*current)
	return &updated, nil
}

// Delete removes the contact owned by authorID and returns the removed row
func (r *ContactRepository) Delete(ctx context.Context, id int64, authorID string) (*domain.Contact, error) {
	contact, err := scanContact(r.pool.QueryRow(ctx,
		`DELETE FROM contacts WHERE contact_id = $1 AND author_id = $2 RETURNING `+query.ContactColumns, id, authorID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notOwned(id)
		}
		return nil, domain.NewStorageError("couldn't delete the contact", err)
	}
	return contact, nil
}

// List returns one keyset page of contacts
func (r *ContactRepository) List(ctx context.Context, opts domain.ListOptions) ([]*domain.Contact, error) {
	stmt, args := query.ListContacts(query.Postgres, opts)

	rows, err := r.pool.Query(ctx, stmt, args...)
	if err != nil {
		return nil, domain.NewStorageError("couldn't retrieve contacts", err)
	}
	defer rows.Close()

	contacts := make([]*domain.Contact, 0)
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, domain.NewStorageError("couldn't retrieve contacts", err)
		}
		contacts = append(contacts, contact)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("couldn't retrieve contacts", err)
	}
	return contacts, nil
}

// Helper functions

func scanContact(row pgx.Row) (*domain.Contact, error) {
	var c domain.Contact
	var image pgtype.Text
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Date, &image, &c.AuthorID); err != nil {
		return nil, err
	}
	c.Image = pgTextToStringPtr(image)
	return &c, nil
}

func notOwned(id int64) error {
	return domain.NewNotFoundError("contact", "", "contact %d does not exist or wrong author_id", id)
}

func stringPtrToPgText(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: *s, Valid: true}
}

func pgTextToStringPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	return &t.String
}
