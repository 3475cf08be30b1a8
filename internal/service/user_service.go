package service

import (
	"context"

	"github.com/dafibh/addressbook/addressbook-backend/internal/domain"
	"github.com/rs/zerolog/log"
)

// UserService handles user and identity business logic
type UserService struct {
	userRepo domain.UserRepository
	contacts *ContactService
}

// NewUserService creates a new UserService
func NewUserService(userRepo domain.UserRepository, contacts *ContactService) *UserService {
	return &UserService{
		userRepo: userRepo,
		contacts: contacts,
	}
}

// CreateIfNotExists records the subject on first sight. The returned user has
// FirstTime set only when this call inserted it.
func (s *UserService) CreateIfNotExists(ctx context.Context, auth0Sub, nickname string) (*domain.User, error) {
	if auth0Sub == "" {
		return nil, domain.NewValidationError("auth0_sub", "you must provide an auth0_sub")
	}

	created, err := s.userRepo.CreateIfNotExists(ctx, auth0Sub, nickname)
	if err != nil {
		log.Error().Err(err).Str("auth0_sub", auth0Sub).Msg("Failed to create user")
		return nil, err
	}
	if created {
		log.Info().Str("auth0_sub", auth0Sub).Str("nickname", nickname).Msg("Created new user")
	}

	return &domain.User{
		Auth0Sub:  auth0Sub,
		Nickname:  nickname,
		FirstTime: created,
	}, nil
}

// GetBySubject retrieves a user by their Auth0 subject
func (s *UserService) GetBySubject(ctx context.Context, auth0Sub string) (*domain.User, error) {
	return s.userRepo.GetByAuth0Sub(ctx, auth0Sub)
}

// ListIdentitiesBySameName returns every provider account sharing the nickname.
// Linking by display name is best-effort: anyone can pick the same nickname.
func (s *UserService) ListIdentitiesBySameName(ctx context.Context, nickname string) ([]domain.Identity, error) {
	users, err := s.userRepo.ListByNickname(ctx, nickname)
	if err != nil {
		return nil, err
	}

	identities := make([]domain.Identity, 0, len(users))
	for _, u := range users {
		identities = append(identities, domain.NewIdentity(u.Auth0Sub))
	}
	return identities, nil
}

// MyPage is the caller's profile with linked identities and own contacts
type MyPage struct {
	domain.User
	Identities []domain.Identity `json:"identities"`
	Contacts   []*domain.Contact `json:"contacts"`
}

// MyPage composes the caller's page. The listing is always scoped to the caller.
func (s *UserService) MyPage(ctx context.Context, auth0Sub string, firstTime bool, list ListContactsInput) (*MyPage, error) {
	user, err := s.userRepo.GetByAuth0Sub(ctx, auth0Sub)
	if err != nil {
		return nil, err
	}
	user.FirstTime = firstTime

	identities, err := s.ListIdentitiesBySameName(ctx, user.Nickname)
	if err != nil {
		return nil, err
	}

	list.AuthorID = auth0Sub
	contacts, err := s.contacts.ListContacts(ctx, list)
	if err != nil {
		return nil, err
	}

	return &MyPage{
		User:       *user,
		Identities: identities,
		Contacts:   contacts,
	}, nil
}
