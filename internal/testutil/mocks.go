package testutil

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/dafibh/addressbook/addressbook-backend/internal/domain"
	"github.com/dafibh/addressbook/addressbook-backend/internal/websocket"
)

// MockContactRepository is an in-memory implementation of domain.ContactRepository
type MockContactRepository struct {
	mu       sync.Mutex
	Contacts map[int64]*domain.Contact
	nextID   int64

	// Err, when set, is returned by every method
	Err error
	// LastListOptions records the options of the latest List call
	LastListOptions domain.ListOptions
}

// NewMockContactRepository creates a new MockContactRepository
func NewMockContactRepository() *MockContactRepository {
	return &MockContactRepository{
		Contacts: make(map[int64]*domain.Contact),
		nextID:   1,
	}
}

// AddContact stores a contact directly, assigning an id when it has none
func (m *MockContactRepository) AddContact(c *domain.Contact) *domain.Contact {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == 0 {
		c.ID = m.nextID
	}
	if c.ID >= m.nextID {
		m.nextID = c.ID + 1
	}
	stored := *c
	m.Contacts[c.ID] = &stored
	return c
}

// Create stores a contact and returns its id
func (m *MockContactRepository) Create(ctx context.Context, contact *domain.Contact) (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	c := *contact
	c.ID = 0
	return m.AddContact(&c).ID, nil
}

// GetByID retrieves a contact by id
func (m *MockContactRepository) GetByID(ctx context.Context, id int64) (*domain.Contact, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.Contacts[id]
	if !ok {
		return nil, domain.NewNotFoundError("contact", "", "contact %d not found", id)
	}
	copied := *c
	return &copied, nil
}

// Update applies a patch to a contact owned by authorID
func (m *MockContactRepository) Update(ctx context.Context, id int64, authorID string, patch domain.ContactPatch) (*domain.Contact, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if patch.IsEmpty() {
		return nil, domain.NewValidationError("patch", "you must provide a name, or email, or image, and an author_id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.Contacts[id]
	if !ok || c.AuthorID != authorID {
		return nil, domain.NewNotFoundError("contact", "", "contact %d does not exist or wrong author_id", id)
	}
	updated := patch.Apply(*c)
	m.Contacts[id] = &updated
	result := updated
	return &result, nil
}

// Delete removes a contact owned by authorID
func (m *MockContactRepository) Delete(ctx context.Context, id int64, authorID string) (*domain.Contact, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.Contacts[id]
	if !ok || c.AuthorID != authorID {
		return nil, domain.NewNotFoundError("contact", "", "contact %d does not exist or wrong author_id", id)
	}
	delete(m.Contacts, id)
	return c, nil
}

// List returns contacts ordered by id, filtered by author and an id cursor.
// Non-id orderings are only recorded, not emulated.
func (m *MockContactRepository) List(ctx context.Context, opts domain.ListOptions) ([]*domain.Contact, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	opts = opts.Normalize()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastListOptions = opts

	result := make([]*domain.Contact, 0)
	for _, c := range m.Contacts {
		if opts.AuthorID != "" && c.AuthorID != opts.AuthorID {
			continue
		}
		if cursor, ok := opts.Cursor.(int64); ok && opts.OrderBy == domain.SortByID {
			if !opts.Descending && c.ID <= cursor || opts.Descending && c.ID >= cursor {
				continue
			}
		}
		copied := *c
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool {
		if opts.Descending {
			return result[i].ID > result[j].ID
		}
		return result[i].ID < result[j].ID
	})
	if len(result) > opts.Limit {
		result = result[:opts.Limit]
	}
	return result, nil
}

// MockUserRepository is an in-memory implementation of domain.UserRepository
type MockUserRepository struct {
	mu     sync.Mutex
	Users  []*domain.User
	nextID int64

	// Err, when set, is returned by every method
	Err error
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{nextID: 1}
}

// CreateIfNotExists inserts the user unless the subject is already known
func (m *MockUserRepository) CreateIfNotExists(ctx context.Context, auth0Sub, nickname string) (bool, error) {
	if m.Err != nil {
		return false, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.Users {
		if u.Auth0Sub == auth0Sub {
			return false, nil
		}
	}
	m.Users = append(m.Users, &domain.User{ID: m.nextID, Auth0Sub: auth0Sub, Nickname: nickname})
	m.nextID++
	return true, nil
}

// GetByAuth0Sub retrieves a user by subject
func (m *MockUserRepository) GetByAuth0Sub(ctx context.Context, auth0Sub string) (*domain.User, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.Users {
		if u.Auth0Sub == auth0Sub {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.NewNotFoundError("user", auth0Sub, "user %s not found", auth0Sub)
}

// ListByNickname returns users sharing the nickname in insertion order
func (m *MockUserRepository) ListByNickname(ctx context.Context, nickname string) ([]*domain.User, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*domain.User, 0)
	for _, u := range m.Users {
		if u.Nickname == nickname {
			copied := *u
			result = append(result, &copied)
		}
	}
	return result, nil
}

// MockImageRepository is an in-memory implementation of storage.ImageRepository
type MockImageRepository struct {
	mu      sync.Mutex
	Objects map[string][]byte
	Deleted []string

	// UploadErr, when set, is returned by Upload
	UploadErr error
}

// NewMockImageRepository creates a new MockImageRepository
func NewMockImageRepository() *MockImageRepository {
	return &MockImageRepository{Objects: make(map[string][]byte)}
}

// Upload stores the object in memory
func (m *MockImageRepository) Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error) {
	if m.UploadErr != nil {
		return "", m.UploadErr
	}
	b, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Objects[objectPath] = b
	return objectPath, nil
}

// Open returns a reader over a stored object
func (m *MockImageRepository) Open(ctx context.Context, objectPath string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.Objects[objectPath]
	if !ok {
		return nil, domain.NewNotFoundError("image", objectPath, "image %s not found", objectPath)
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

// Delete removes a stored object and records the key
func (m *MockImageRepository) Delete(ctx context.Context, objectPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Objects, objectPath)
	m.Deleted = append(m.Deleted, objectPath)
	return nil
}

// Keys returns the stored object keys in sorted order
func (m *MockImageRepository) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.Objects))
	for k := range m.Objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// PublishedEvent is one event captured by MockPublisher
type PublishedEvent struct {
	OwnerID string
	Event   websocket.Event
}

// MockPublisher records published websocket events
type MockPublisher struct {
	mu     sync.Mutex
	Events []PublishedEvent
}

// Publish records the event
func (m *MockPublisher) Publish(ownerID string, event websocket.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, PublishedEvent{OwnerID: ownerID, Event: event})
}

// Types returns the recorded event types in order
func (m *MockPublisher) Types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, 0, len(m.Events))
	for _, e := range m.Events {
		types = append(types, e.Event.Type)
	}
	return types
}

// HasPrefix reports whether any stored key starts with prefix
func (m *MockImageRepository) HasPrefix(prefix string) bool {
	for _, k := range m.Keys() {
		if strings.HasPrefix(k, prefix) {
			return true
		}
	}
	return false
}
