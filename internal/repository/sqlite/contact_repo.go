package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dafibh/addressbook/addressbook-backend/internal/domain"
	"github.com/dafibh/addressbook/addressbook-backend/internal/repository/query"
)

// ContactRepository implements domain.ContactRepository using SQLite
type ContactRepository struct {
	db *sql.DB
}

// NewContactRepository creates a new ContactRepository
func NewContactRepository(db *sql.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// Create inserts a contact and returns its id
func (r *ContactRepository) Create(ctx context.Context, contact *domain.Contact) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO contacts (name, email, date, image, author_id) VALUES (?, ?, ?, ?, ?)`,
		contact.Name, contact.Email, contact.Date, contact.Image, contact.AuthorID,
	)
	if err != nil {
		return 0, domain.NewStorageError("couldn't insert this combination", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, domain.NewStorageError("couldn't read the new contact id", err)
	}
	return id, nil
}

// GetByID retrieves a contact regardless of owner
func (r *ContactRepository) GetByID(ctx context.Context, id int64) (*domain.Contact, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+query.ContactColumns+` FROM contacts WHERE contact_id = ?`, id)
	contact, err := scanContact(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("contact", "", "contact %d not found", id)
		}
		return nil, domain.NewStorageError("couldn't get the contact", err)
	}
	return contact, nil
}

// Update applies the patch to the contact owned by authorID. The read and
// the write share one transaction.
func (r *ContactRepository) Update(ctx context.Context, id int64, authorID string, patch domain.ContactPatch) (*domain.Contact, error) {
	stmt, args, err := query.UpdateContact(query.SQLite, id, authorID, patch.Fields())
	if err != nil {
		return nil, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, domain.NewStorageError("couldn't start the update", err)
	}
	defer tx.Rollback()

	current, err := scanContact(tx.QueryRowContext(ctx,
		`SELECT `+query.ContactColumns+` FROM contacts WHERE contact_id = ? AND author_id = ?`, id, authorID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notOwned(id)
		}
		return nil, domain.NewStorageError("couldn't update the contact", err)
	}

	res, err := tx.ExecContext(ctx, stmt, args...)
	if err != nil {
		return nil, domain.NewStorageError("couldn't update the contact", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, domain.NewStorageError("couldn't update the contact", err)
	} else if n == 0 {
		return nil, notOwned(id)
	}

	if err := tx.Commit(); err != nil {
		return nil, domain.NewStorageError("couldn't update the contact", err)
	}

	updated := patch.Apply(*current)
	return &updated, nil
}

// Delete removes the contact owned by authorID and returns the removed row
func (r *ContactRepository) Delete(ctx context.Context, id int64, authorID string) (*domain.Contact, error) {
	row := r.db.QueryRowContext(ctx,
		`DELETE FROM contacts WHERE contact_id = ? AND author_id = ? RETURNING `+query.ContactColumns, id, authorID)
	contact, err := scanContact(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notOwned(id)
		}
		return nil, domain.NewStorageError("couldn't delete the contact", err)
	}
	return contact, nil
}

// List returns one keyset page of contacts
func (r *ContactRepository) List(ctx context.Context, opts domain.ListOptions) ([]*domain.Contact, error) {
	stmt, args := query.ListContacts(query.SQLite, opts)

	rows, err := r.db.QueryContext(ctx, stmt, args...)
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

func scanContact(row rowScanner) (*domain.Contact, error) {
	var c domain.Contact
	var image sql.NullString
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Date, &image, &c.AuthorID); err != nil {
		return nil, err
	}
	if image.Valid {
		c.Image = &image.String
	}
	return &c, nil
}

func notOwned(id int64) error {
	return domain.NewNotFoundError("contact", "", "contact %d does not exist or wrong author_id", id)
}
