package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/dafibh/addressbook/addressbook-backend/internal/domain"
	"github.com/dafibh/addressbook/addressbook-backend/internal/websocket"
	"github.com/rs/zerolog/log"
)

// ContactService handles contact business logic
type ContactService struct {
	contactRepo    domain.ContactRepository
	images         *ImageService
	eventPublisher websocket.EventPublisher
	now            func() time.Time
}

// NewContactService creates a new ContactService. images may be nil when
// uploads are disabled.
func NewContactService(contactRepo domain.ContactRepository, images *ImageService) *ContactService {
	return &ContactService{
		contactRepo: contactRepo,
		images:      images,
		now:         time.Now,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *ContactService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *ContactService) publishEvent(ownerID string, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(ownerID, event)
	}
}

// ImageUpload is a raw uploaded image file
type ImageUpload struct {
	Data     []byte
	Filename string
}

// CreateContactInput contains input for creating a contact
type CreateContactInput struct {
	Name     string
	Email    string
	AuthorID string
	Image    *ImageUpload
}

// CreateContact validates the input, stores the optional image and inserts the contact
func (s *ContactService) CreateContact(ctx context.Context, input CreateContactInput) (int64, error) {
	in := domain.NewContactInput{
		Name:     strings.TrimSpace(input.Name),
		Email:    strings.TrimSpace(input.Email),
		AuthorID: strings.TrimSpace(input.AuthorID),
	}
	if err := in.Validate(); err != nil {
		return 0, err
	}

	if input.Image != nil {
		key, err := s.uploadImage(ctx, input.Image)
		if err != nil {
			return 0, err
		}
		in.Image = &key
	}

	contact := &domain.Contact{
		Name:     in.Name,
		Email:    in.Email,
		Image:    in.Image,
		Date:     domain.FormatDate(s.now()),
		AuthorID: in.AuthorID,
	}

	id, err := s.contactRepo.Create(ctx, contact)
	if err != nil {
		if contact.Image != nil {
			s.deleteImage(ctx, *contact.Image)
		}
		return 0, err
	}
	contact.ID = id

	log.Info().Int64("contact_id", id).Str("author_id", contact.AuthorID).Msg("Contact created")
	s.publishEvent(contact.AuthorID, websocket.ContactCreated(contact))
	return id, nil
}

// GetContact retrieves a contact by id. Reads are not scoped to an owner.
func (s *ContactService) GetContact(ctx context.Context, id int64) (*domain.Contact, error) {
	return s.contactRepo.GetByID(ctx, id)
}

// UpdateContactInput contains the optional fields of an update
type UpdateContactInput struct {
	Name  *string
	Email *string
	Image *ImageUpload
}

// UpdateContact applies a partial update to a contact owned by authorID
func (s *ContactService) UpdateContact(ctx context.Context, id int64, authorID string, input UpdateContactInput) (*domain.Contact, error) {
	patch := domain.ContactPatch{
		Name:  trimmedOrNil(input.Name),
		Email: trimmedOrNil(input.Email),
	}
	if strings.TrimSpace(authorID) == "" || (patch.IsEmpty() && input.Image == nil) {
		return nil, domain.NewValidationError("patch", "you must provide a name, or email, or image, and an author_id")
	}

	var previousImage string
	if input.Image != nil {
		if current, err := s.contactRepo.GetByID(ctx, id); err == nil && current.AuthorID == authorID && current.Image != nil {
			previousImage = *current.Image
		}
		key, err := s.uploadImage(ctx, input.Image)
		if err != nil {
			return nil, err
		}
		patch.Image = &key
	}

	updated, err := s.contactRepo.Update(ctx, id, authorID, patch)
	if err != nil {
		if patch.Image != nil {
			s.deleteImage(ctx, *patch.Image)
		}
		return nil, err
	}

	if previousImage != "" && (updated.Image == nil || *updated.Image != previousImage) {
		s.deleteImage(ctx, previousImage)
	}

	log.Info().Int64("contact_id", id).Str("author_id", authorID).Msg("Contact updated")
	s.publishEvent(authorID, websocket.ContactUpdated(updated))
	return updated, nil
}

// DeleteContact removes a contact owned by authorID along with its image
func (s *ContactService) DeleteContact(ctx context.Context, id int64, authorID string) error {
	if strings.TrimSpace(authorID) == "" {
		return domain.NewValidationError("author_id", "you must provide an author_id")
	}

	deleted, err := s.contactRepo.Delete(ctx, id, authorID)
	if err != nil {
		return err
	}

	if deleted.Image != nil {
		s.deleteImage(ctx, *deleted.Image)
	}

	log.Info().Int64("contact_id", id).Str("author_id", authorID).Msg("Contact deleted")
	s.publishEvent(authorID, websocket.ContactDeleted(deleted))
	return nil
}

// ListContactsInput holds the raw listing parameters
type ListContactsInput struct {
	OrderBy    string
	Descending bool
	Limit      int
	Start      string
	StartID    string
	AuthorID   string
}

// ListContacts returns one keyset page of contacts
func (s *ContactService) ListContacts(ctx context.Context, input ListContactsInput) ([]*domain.Contact, error) {
	opts, err := BuildListOptions(input)
	if err != nil {
		return nil, err
	}
	return s.contactRepo.List(ctx, opts)
}

// BuildListOptions converts raw parameters into list options. The cursor is
// parsed according to the type of the sort column.
func BuildListOptions(input ListContactsInput) (domain.ListOptions, error) {
	opts := domain.ListOptions{
		OrderBy:    domain.ParseSortColumn(input.OrderBy),
		AuthorID:   input.AuthorID,
		Descending: input.Descending,
		Limit:      input.Limit,
	}

	if input.Start != "" {
		if opts.OrderBy.IsNumeric() {
			n, err := strconv.ParseInt(input.Start, 10, 64)
			if err != nil {
				return domain.ListOptions{}, domain.NewValidationError("start", "start must be an integer when ordering by id")
			}
			opts.Cursor = n
		} else {
			opts.Cursor = input.Start
		}
	}

	if input.StartID != "" {
		n, err := strconv.ParseInt(input.StartID, 10, 64)
		if err != nil {
			return domain.ListOptions{}, domain.NewValidationError("start_id", "start_id must be an integer")
		}
		opts.CursorID = &n
	}

	return opts.Normalize(), nil
}

func (s *ContactService) uploadImage(ctx context.Context, upload *ImageUpload) (string, error) {
	if !s.images.IsEnabled() {
		return "", ErrImageStorageNotConfigured
	}
	return s.images.ProcessAndUpload(ctx, upload.Data, upload.Filename)
}

// deleteImage removes a stored image; failures are only logged
func (s *ContactService) deleteImage(ctx context.Context, key string) {
	if !s.images.IsEnabled() {
		return
	}
	if err := s.images.Delete(ctx, key); err != nil {
		log.Warn().Err(err).Str("image", key).Msg("Failed to delete contact image")
	}
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
