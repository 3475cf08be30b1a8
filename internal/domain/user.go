package domain

import (
	"context"
	"strings"
)

// User represents an identity-provider account seen by the system
type User struct {
	ID        int64  `json:"-"`
	Auth0Sub  string `json:"auth0_sub"`
	Nickname  string `json:"nickname"`
	FirstTime bool   `json:"firstTime,omitempty"`
}

// Identity is one provider account of a human, as linked by nickname
type Identity struct {
	ProviderName string `json:"providerName"`
	SubjectID    string `json:"subjectId"`
}

// ProviderName extracts the provider from an Auth0 subject,
// e.g. "google-oauth2|123" -> "google", "github|2" -> "github"
func ProviderName(sub string) string {
	providerType, _, _ := strings.Cut(sub, "|")
	name, _, _ := strings.Cut(providerType, "-")
	return name
}

// NewIdentity builds the Identity of a subject
func NewIdentity(sub string) Identity {
	return Identity{ProviderName: ProviderName(sub), SubjectID: sub}
}

// UserRepository defines the interface for user persistence operations
type UserRepository interface {
	// CreateIfNotExists inserts the user unless auth0_sub is already known.
	// created reports whether a row was inserted.
	CreateIfNotExists(ctx context.Context, auth0Sub, nickname string) (created bool, err error)
	GetByAuth0Sub(ctx context.Context, auth0Sub string) (*User, error)
	ListByNickname(ctx context.Context, nickname string) ([]*User, error)
}
