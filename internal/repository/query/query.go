// Package query builds the parameterised SQL shared by the storage backends.
// Values are always bound as arguments; only whitelisted column names are
// ever written into the statement text.
package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dafibh/addressbook/addressbook-backend/internal/domain"
)

// Dialect renders the n-th (1-based) bind placeholder
type Dialect interface {
	Placeholder(n int) string
}

type questionDialect struct{}

func (questionDialect) Placeholder(int) string { return "?" }

type dollarDialect struct{}

func (dollarDialect) Placeholder(n int) string { return "$" + strconv.Itoa(n) }

var (
	// SQLite uses positional `?` placeholders
	SQLite Dialect = questionDialect{}
	// Postgres uses numbered `$n` placeholders
	Postgres Dialect = dollarDialect{}
)

// ContactColumns is the select list mapped by every contact scan
const ContactColumns = "contact_id, name, email, date, image, author_id"

var updatableColumns = map[string]bool{
	"name":  true,
	"email": true,
	"image": true,
}

// Builder accumulates statement text and its bound arguments
type Builder struct {
	dialect Dialect
	sb      strings.Builder
	args    []interface{}
}

// NewBuilder creates a Builder for the dialect
func NewBuilder(d Dialect) *Builder {
	return &Builder{dialect: d}
}

// Write appends raw statement text
func (b *Builder) Write(s string) *Builder {
	b.sb.WriteString(s)
	return b
}

// Arg binds v and returns its placeholder. Call it in the order the
// placeholders appear in the text.
func (b *Builder) Arg(v interface{}) string {
	b.args = append(b.args, v)
	return b.dialect.Placeholder(len(b.args))
}

// SQL returns the statement text
func (b *Builder) SQL() string {
	return b.sb.String()
}

// Args returns the bound arguments
func (b *Builder) Args() []interface{} {
	return b.args
}

// ListContacts builds the keyset-paginated listing. The cursor is compared
// against the same column the rows are ordered by, so consecutive pages
// neither overlap nor leave gaps.
func ListContacts(d Dialect, opts domain.ListOptions) (string, []interface{}) {
	opts = opts.Normalize()
	col := string(opts.OrderBy)

	cmp, dir := ">", "ASC"
	if opts.Descending {
		cmp, dir = "<", "DESC"
	}

	cursor := opts.Cursor
	if cursor == nil && !opts.Descending {
		cursor = opts.OrderBy.DefaultCursor()
	}

	b := NewBuilder(d)
	var conds []string
	if cursor != nil {
		if opts.CursorID != nil && opts.OrderBy != domain.SortByID {
			conds = append(conds, fmt.Sprintf("(%s %s %s OR (%s = %s AND contact_id %s %s))",
				col, cmp, b.Arg(cursor), col, b.Arg(cursor), cmp, b.Arg(*opts.CursorID)))
		} else {
			conds = append(conds, fmt.Sprintf("%s %s %s", col, cmp, b.Arg(cursor)))
		}
	}
	if opts.AuthorID != "" {
		conds = append(conds, "author_id = "+b.Arg(opts.AuthorID))
	}

	b.Write("SELECT " + ContactColumns + " FROM contacts")
	if len(conds) > 0 {
		b.Write(" WHERE " + strings.Join(conds, " AND "))
	}
	b.Write(" ORDER BY " + col + " " + dir)
	if opts.OrderBy != domain.SortByID {
		b.Write(", contact_id " + dir)
	}
	b.Write(" LIMIT " + b.Arg(opts.Limit))

	return b.SQL(), b.Args()
}

// UpdateContact builds the owner-scoped partial update. Only the given
// fields are assigned; everything else keeps its stored value.
func UpdateContact(d Dialect, id int64, authorID string, fields []domain.Field) (string, []interface{}, error) {
	if len(fields) == 0 {
		return "", nil, domain.NewValidationError("patch", "you must provide a name, or email, or image, and an author_id")
	}

	b := NewBuilder(d)
	assignments := make([]string, 0, len(fields))
	for _, f := range fields {
		if !updatableColumns[f.Column] {
			return "", nil, fmt.Errorf("column %q is not updatable", f.Column)
		}
		assignments = append(assignments, f.Column+" = "+b.Arg(f.Value))
	}

	b.Write("UPDATE contacts SET " + strings.Join(assignments, ", "))
	b.Write(" WHERE contact_id = " + b.Arg(id) + " AND author_id = " + b.Arg(authorID))

	return b.SQL(), b.Args(), nil
}
