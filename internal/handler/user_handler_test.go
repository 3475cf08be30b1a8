package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dafibh/addressbook/addressbook-backend/internal/domain"
	"github.com/dafibh/addressbook/addressbook-backend/internal/middleware"
	"github.com/dafibh/addressbook/addressbook-backend/internal/service"
	"github.com/dafibh/addressbook/addressbook-backend/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMyPage(t *testing.T) {
	contactRepo := testutil.NewMockContactRepository()
	userRepo := testutil.NewMockUserRepository()
	contacts := service.NewContactService(contactRepo, nil)
	h := NewUserHandler(service.NewUserService(userRepo, contacts))

	ctx := context.Background()
	_, err := userRepo.CreateIfNotExists(ctx, "google-oauth2|1", "alice")
	require.NoError(t, err)
	_, err = userRepo.CreateIfNotExists(ctx, "github|2", "alice")
	require.NoError(t, err)
	contactRepo.AddContact(&domain.Contact{Name: "Mine", Email: "m@example.com", AuthorID: "google-oauth2|1"})
	contactRepo.AddContact(&domain.Contact{Name: "Theirs", Email: "t@example.com", AuthorID: "github|2"})

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/mypage?author=github|2", nil), rec)
	setupAuthContext(c, "google-oauth2|1")
	firstTime := context.WithValue(c.Request().Context(), middleware.FirstTimeKey, true)
	c.SetRequest(c.Request().WithContext(firstTime))

	require.NoError(t, h.MyPage(c))

	var page struct {
		Auth0Sub   string            `json:"auth0_sub"`
		Nickname   string            `json:"nickname"`
		FirstTime  bool              `json:"firstTime"`
		Identities []domain.Identity `json:"identities"`
		Contacts   []domain.Contact  `json:"contacts"`
	}
	decodeSuccess(t, rec, &page)

	assert.Equal(t, "google-oauth2|1", page.Auth0Sub)
	assert.Equal(t, "alice", page.Nickname)
	assert.True(t, page.FirstTime)
	assert.Equal(t, []domain.Identity{
		{ProviderName: "google", SubjectID: "google-oauth2|1"},
		{ProviderName: "github", SubjectID: "github|2"},
	}, page.Identities)
	require.Len(t, page.Contacts, 1)
	assert.Equal(t, "Mine", page.Contacts[0].Name)
}

func TestMyPage_Anonymous(t *testing.T) {
	h := NewUserHandler(service.NewUserService(testutil.NewMockUserRepository(), nil))
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/mypage", nil), httptest.NewRecorder())

	assert.ErrorIs(t, h.MyPage(c), domain.ErrUnauthorized)
}
