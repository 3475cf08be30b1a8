package query

import (
	"testing"

	"github.com/dafibh/addressbook/addressbook-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListContacts_DefaultsToIDAscending(t *testing.T) {
	sql, args := ListContacts(SQLite, domain.ListOptions{})

	assert.Equal(t, "SELECT "+ContactColumns+" FROM contacts WHERE contact_id > ? ORDER BY contact_id ASC LIMIT ?", sql)
	assert.Equal(t, []interface{}{int64(0), 100}, args)
}

func TestListContacts_UnknownOrderFallsBackToID(t *testing.T) {
	sql, _ := ListContacts(SQLite, domain.ListOptions{OrderBy: domain.ParseSortColumn("phone")})

	assert.Contains(t, sql, "ORDER BY contact_id ASC")
}

func TestListContacts_CursorAndOrderUseSameColumn(t *testing.T) {
	tests := []struct {
		name   string
		column domain.SortColumn
		cursor interface{}
	}{
		{"name", domain.SortByName, ""},
		{"email", domain.SortByEmail, ""},
		{"date", domain.SortByDate, domain.MinDate},
		{"id", domain.SortByID, int64(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := ListContacts(SQLite, domain.ListOptions{OrderBy: tt.column, Limit: 2})

			assert.Contains(t, sql, "WHERE "+string(tt.column)+" > ?")
			assert.Contains(t, sql, "ORDER BY "+string(tt.column)+" ASC")
			assert.Equal(t, tt.cursor, args[0])
			assert.Equal(t, 2, args[len(args)-1])
		})
	}
}

func TestListContacts_AuthorFilterPostgres(t *testing.T) {
	sql, args := ListContacts(Postgres, domain.ListOptions{
		OrderBy:  domain.SortByName,
		AuthorID: "u1",
		Cursor:   "bob",
		Limit:    10,
	})

	assert.Equal(t, "SELECT "+ContactColumns+" FROM contacts WHERE name > $1 AND author_id = $2 ORDER BY name ASC, contact_id ASC LIMIT $3", sql)
	assert.Equal(t, []interface{}{"bob", "u1", 10}, args)
}

func TestListContacts_DescendingWithoutCursorHasNoBound(t *testing.T) {
	sql, args := ListContacts(SQLite, domain.ListOptions{OrderBy: domain.SortByDate, Descending: true})

	assert.NotContains(t, sql, "WHERE")
	assert.Contains(t, sql, "ORDER BY date DESC, contact_id DESC")
	assert.Equal(t, []interface{}{100}, args)
}

func TestListContacts_DescendingCursorComparesLess(t *testing.T) {
	sql, args := ListContacts(SQLite, domain.ListOptions{OrderBy: domain.SortByID, Descending: true, Cursor: int64(40)})

	assert.Contains(t, sql, "WHERE contact_id < ?")
	assert.Equal(t, []interface{}{int64(40), 100}, args)
}

func TestListContacts_CursorIDTieBreaker(t *testing.T) {
	id := int64(12)
	sql, args := ListContacts(Postgres, domain.ListOptions{OrderBy: domain.SortByName, Cursor: "bob", CursorID: &id})

	assert.Contains(t, sql, "WHERE (name > $1 OR (name = $2 AND contact_id > $3))")
	assert.Equal(t, []interface{}{"bob", "bob", int64(12), 100}, args)
}

func TestUpdateContact_OnlyPresentFields(t *testing.T) {
	email := "x@y.c"
	patch := domain.ContactPatch{Email: &email}

	sql, args, err := UpdateContact(SQLite, 5, "u1", patch.Fields())

	require.NoError(t, err)
	assert.Equal(t, "UPDATE contacts SET email = ? WHERE contact_id = ? AND author_id = ?", sql)
	assert.Equal(t, []interface{}{"x@y.c", int64(5), "u1"}, args)
}

func TestUpdateContact_Postgres(t *testing.T) {
	name, image := "Bob", "b.jpg"
	patch := domain.ContactPatch{Name: &name, Image: &image}

	sql, args, err := UpdateContact(Postgres, 9, "u2", patch.Fields())

	require.NoError(t, err)
	assert.Equal(t, "UPDATE contacts SET name = $1, image = $2 WHERE contact_id = $3 AND author_id = $4", sql)
	assert.Equal(t, []interface{}{"Bob", "b.jpg", int64(9), "u2"}, args)
}

func TestUpdateContact_ValuesNeverInlined(t *testing.T) {
	name := "'; DROP TABLE contacts; --"
	sql, args, err := UpdateContact(SQLite, 1, "u1", domain.ContactPatch{Name: &name}.Fields())

	require.NoError(t, err)
	assert.NotContains(t, sql, "DROP")
	assert.Equal(t, name, args[0])
}

func TestUpdateContact_Rejections(t *testing.T) {
	_, _, err := UpdateContact(SQLite, 1, "u1", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, _, err = UpdateContact(SQLite, 1, "u1", []domain.Field{{Column: "author_id", Value: "u2"}})
	assert.Error(t, err)
}
