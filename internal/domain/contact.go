package domain

import (
	"context"
	"strings"
	"time"
)

// DateLayout is the storage format of Contact.Date (YYYY-MM-DD HH:mm:ss.sss, UTC)
const DateLayout = "2006-01-02 15:04:05.000"

// Contact is a single address-book entry owned by AuthorID
type Contact struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Image    *string `json:"image"`
	Date     string  `json:"date,omitempty"`
	AuthorID string  `json:"author_id"`
}

// FormatDate renders t in the storage date format
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// NewContactInput contains the fields accepted when creating a contact
type NewContactInput struct {
	Name     string
	Email    string
	AuthorID string
	Image    *string
}

// Validate checks that all required fields are present
func (in NewContactInput) Validate() error {
	required := []struct{ field, value string }{
		{"name", in.Name},
		{"email", in.Email},
		{"author_id", in.AuthorID},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return NewValidationError(r.field, "you must provide a name, an email, and an author_id")
		}
	}
	return nil
}

// ContactPatch is a partial update. Nil fields keep their current value.
type ContactPatch struct {
	Name  *string
	Email *string
	Image *string
}

// IsEmpty reports whether the patch changes nothing
func (p ContactPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.Image == nil
}

// Fields returns the present fields keyed by column name, in a fixed order
func (p ContactPatch) Fields() []Field {
	fields := make([]Field, 0, 3)
	if p.Name != nil {
		fields = append(fields, Field{Column: "name", Value: *p.Name})
	}
	if p.Email != nil {
		fields = append(fields, Field{Column: "email", Value: *p.Email})
	}
	if p.Image != nil {
		fields = append(fields, Field{Column: "image", Value: *p.Image})
	}
	return fields
}

// Apply returns a copy of c with the patch applied
func (p ContactPatch) Apply(c Contact) Contact {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.Image != nil {
		image := *p.Image
		c.Image = &image
	}
	return c
}

// Field is a single column assignment
type Field struct {
	Column string
	Value  interface{}
}

// SortColumn is a whitelisted column contacts can be ordered and paginated by
type SortColumn string

const (
	SortByID    SortColumn = "contact_id"
	SortByName  SortColumn = "name"
	SortByEmail SortColumn = "email"
	SortByDate  SortColumn = "date"
)

// ParseSortColumn maps a requested order to a column. Unrecognised values fall back to id.
func ParseSortColumn(orderBy string) SortColumn {
	switch strings.ToLower(strings.TrimSpace(orderBy)) {
	case "name":
		return SortByName
	case "email":
		return SortByEmail
	case "date":
		return SortByDate
	default:
		return SortByID
	}
}

// MinDate sorts before every date the service can produce
const MinDate = "0000-01-01 00:00:00.000"

// DefaultCursor is the value every row of the column compares greater than.
// Text columns use the empty string, the smallest value under binary collation;
// name and email are never empty so no row is skipped on the first page.
func (s SortColumn) DefaultCursor() interface{} {
	switch s {
	case SortByID:
		return int64(0)
	case SortByDate:
		return MinDate
	default:
		return ""
	}
}

// IsNumeric reports whether cursor values for the column are integers
func (s SortColumn) IsNumeric() bool {
	return s == SortByID
}

const (
	DefaultListLimit = 100
	MaxListLimit     = 1000
)

// ListOptions drives the keyset-paginated contact listing
type ListOptions struct {
	OrderBy    SortColumn
	AuthorID   string
	Descending bool
	Limit      int
	// Cursor is the last seen value of OrderBy; nil starts from the first row.
	Cursor interface{}
	// CursorID breaks ties between rows sharing the cursor value.
	CursorID *int64
}

// Normalize fills defaults and clamps the limit
func (o ListOptions) Normalize() ListOptions {
	switch o.OrderBy {
	case SortByID, SortByName, SortByEmail, SortByDate:
	default:
		o.OrderBy = SortByID
	}
	if o.Limit <= 0 {
		o.Limit = DefaultListLimit
	}
	if o.Limit > MaxListLimit {
		o.Limit = MaxListLimit
	}
	return o
}

// ContactRepository defines the persistence operations for contacts
type ContactRepository interface {
	Create(ctx context.Context, contact *Contact) (int64, error)
	GetByID(ctx context.Context, id int64) (*Contact, error)
	Update(ctx context.Context, id int64, authorID string, patch ContactPatch) (*Contact, error)
	Delete(ctx context.Context, id int64, authorID string) (*Contact, error)
	List(ctx context.Context, opts ListOptions) ([]*Contact, error)
}
