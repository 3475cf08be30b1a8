package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/dafibh/addressbook/addressbook-backend/internal/domain"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeValidator accepts exactly one token
type fakeValidator struct {
	token  string
	claims *validator.ValidatedClaims
}

func (f *fakeValidator) ValidateToken(ctx context.Context, token string) (interface{}, error) {
	if token != f.token {
		return nil, errors.New("signature is invalid")
	}
	return f.claims, nil
}

// fakeProvisioner records provisioning calls
type fakeProvisioner struct {
	seen  map[string]bool
	calls []string
	err   error
}

func (f *fakeProvisioner) CreateIfNotExists(ctx context.Context, auth0Sub, nickname string) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.calls = append(f.calls, auth0Sub+"/"+nickname)
	first := !f.seen[auth0Sub]
	f.seen[auth0Sub] = true
	return &domain.User{Auth0Sub: auth0Sub, Nickname: nickname, FirstTime: first}, nil
}

func newTestAuth(custom *CustomClaims) (*AuthMiddleware, *fakeProvisioner) {
	claims := &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{Subject: "google-oauth2|1"},
		CustomClaims:     custom,
	}
	users := &fakeProvisioner{seen: map[string]bool{}}
	return NewAuthMiddlewareWithValidator(&fakeValidator{token: "good", claims: claims}, users), users
}

func serve(t *testing.T, mw echo.MiddlewareFunc, authHeader string) (*httptest.ResponseRecorder, echo.Context, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/mypage", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	var seen echo.Context
	err := mw(func(c echo.Context) error {
		called = true
		seen = c
		return c.String(http.StatusOK, "ok")
	})(c)
	require.NoError(t, err)
	return rec, seen, called
}

func decodeFailure(t *testing.T, rec *httptest.ResponseRecorder) failure {
	t.Helper()
	var body failure
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestAuthenticate_Rejections(t *testing.T) {
	m, users := newTestAuth(&CustomClaims{Nickname: "alice"})

	tests := []struct {
		name    string
		header  string
		message string
	}{
		{"missing header", "", "missing authorization header"},
		{"wrong scheme", "Basic abc", "invalid authorization header format"},
		{"bad token", "Bearer forged", "invalid token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _, called := serve(t, m.Authenticate(), tt.header)
			assert.False(t, called, "handler must not run")
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			body := decodeFailure(t, rec)
			assert.False(t, body.Success)
			assert.Equal(t, tt.message, body.Message)
		})
	}
	assert.Empty(t, users.calls, "no user is provisioned for rejected requests")
}

func TestAuthenticate_PopulatesIdentityAndProvisionsUser(t *testing.T) {
	m, users := newTestAuth(&CustomClaims{Nickname: "alice", Email: "alice@example.com"})

	rec, c, called := serve(t, m.Authenticate(), "Bearer good")
	require.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)

	identity, ok := GetIdentity(c)
	require.True(t, ok)
	assert.Equal(t, Identity{SubjectID: "google-oauth2|1", Nickname: "alice"}, identity)
	assert.Equal(t, "google-oauth2|1", GetAuth0ID(c))
	assert.True(t, IsFirstTime(c))
	assert.Equal(t, "alice@example.com", GetCustomClaims(c).Email)

	_, c, _ = serve(t, m.Authenticate(), "bearer good")
	assert.False(t, IsFirstTime(c), "second request is not the first time")
	assert.Equal(t, []string{"google-oauth2|1/alice", "google-oauth2|1/alice"}, users.calls)
}

func TestAuthenticate_ProvisioningFailure(t *testing.T) {
	m, users := newTestAuth(&CustomClaims{Nickname: "alice"})
	users.err = domain.NewStorageError("couldn't create the user", errors.New("database is locked"))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/mypage", nil)
	req.Header.Set("Authorization", "Bearer good")
	c := e.NewContext(req, httptest.NewRecorder())

	err := m.Authenticate()(func(c echo.Context) error {
		t.Fatal("handler must not run")
		return nil
	})(c)
	assert.ErrorIs(t, err, domain.ErrStorage)
}

func TestOptionalAuthenticate(t *testing.T) {
	m, _ := newTestAuth(&CustomClaims{Name: "Alice A."})

	rec, c, called := serve(t, m.OptionalAuthenticate(), "")
	assert.True(t, called, "anonymous requests pass")
	assert.Equal(t, http.StatusOK, rec.Code)
	_, ok := GetIdentity(c)
	assert.False(t, ok)
	assert.Equal(t, "", GetAuth0ID(c))

	rec, _, called = serve(t, m.OptionalAuthenticate(), "Bearer forged")
	assert.False(t, called, "invalid tokens are still rejected")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	_, c, called = serve(t, m.OptionalAuthenticate(), "Bearer good")
	require.True(t, called)
	identity, ok := GetIdentity(c)
	require.True(t, ok)
	assert.Equal(t, "Alice A.", identity.Nickname)
}

func TestNicknameFrom(t *testing.T) {
	tests := []struct {
		name   string
		custom interface{}
		want   string
	}{
		{"nickname wins", &CustomClaims{Nickname: "ali", Name: "Alice", Email: "a@x.com"}, "ali"},
		{"then name", &CustomClaims{Name: "Alice", Email: "a@x.com"}, "Alice"},
		{"then email", &CustomClaims{Email: "a@x.com"}, "a@x.com"},
		{"then subject", &CustomClaims{}, "auth0|42"},
		{"no custom claims", nil, "auth0|42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := &validator.ValidatedClaims{RegisteredClaims: validator.RegisteredClaims{Subject: "auth0|42"}}
			if tt.custom != nil {
				claims.CustomClaims = tt.custom.(*CustomClaims)
			}
			assert.Equal(t, tt.want, nicknameFrom(claims))
		})
	}
}

func TestGetAuth0ID(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	assert.Equal(t, "", GetAuth0ID(c))

	ctx := context.WithValue(c.Request().Context(), Auth0IDKey, "auth0|12345")
	c.SetRequest(c.Request().WithContext(ctx))
	assert.Equal(t, "auth0|12345", GetAuth0ID(c))
}

func TestCustomClaims_Validate(t *testing.T) {
	claims := &CustomClaims{Email: "test@example.com"}
	assert.NoError(t, claims.Validate(context.Background()))
}

func TestNewAuthMiddleware(t *testing.T) {
	m, err := NewAuthMiddleware("test.auth0.com", "https://api.addressbook.app", nil)
	require.NoError(t, err)
	assert.NotNil(t, m.validator)
}
