package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/dafibh/addressbook/addressbook-backend/internal/middleware"
	"github.com/dafibh/addressbook/addressbook-backend/internal/service"
	"github.com/dafibh/addressbook/addressbook-backend/internal/testutil"
	"github.com/dafibh/addressbook/addressbook-backend/internal/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tokenValidator maps fixed tokens to subjects
type tokenValidator map[string]string

func (v tokenValidator) ValidateToken(ctx context.Context, token string) (interface{}, error) {
	sub, ok := v[token]
	if !ok {
		return nil, errors.New("invalid token")
	}
	return &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{Subject: sub},
		CustomClaims:     &middleware.CustomClaims{Nickname: "alice"},
	}, nil
}

func newTestServer(t *testing.T, burst int) *echo.Echo {
	t.Helper()
	contactRepo := testutil.NewMockContactRepository()
	userRepo := testutil.NewMockUserRepository()
	images := service.NewImageService(testutil.NewMockImageRepository())
	contacts := service.NewContactService(contactRepo, images)
	users := service.NewUserService(userRepo, contacts)

	auth := middleware.NewAuthMiddlewareWithValidator(tokenValidator{
		"alice-token": "google-oauth2|1",
		"bob-token":   "github|2",
	}, users)
	rl := middleware.NewRateLimiterWithConfig(60, burst)
	t.Cleanup(rl.Stop)

	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler
	RegisterRoutes(e, auth, rl,
		NewContactHandler(contacts),
		NewUserHandler(users),
		NewImageHandler(images),
		NewWebSocketHandler(websocket.NewHub(), &mockJWTValidator{}, nil),
	)
	return e
}

func do(e *echo.Echo, method, target, token string) (*httptest.ResponseRecorder, map[string]interface{}) {
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var body map[string]interface{}
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return rec, body
}

func TestRoutes_ContactLifecycle(t *testing.T) {
	e := newTestServer(t, 10)

	rec, body := do(e, http.MethodGet, "/contacts/new?name=Carol&email=carol@example.com", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, false, body["success"])

	rec, body = do(e, http.MethodGet, "/contacts/new?name=Carol&email=carol@example.com", "alice-token")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(1), body["result"])

	rec, body = do(e, http.MethodGet, "/contacts/get/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	contact := body["result"].(map[string]interface{})
	assert.Equal(t, "Carol", contact["name"])
	assert.Equal(t, "google-oauth2|1", contact["author_id"])

	rec, body = do(e, http.MethodGet, "/contacts/delete/1", "bob-token")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, map[string]interface{}{"success": false, "message": "contact 1 does not exist or wrong author_id"}, body)

	rec, body = do(e, http.MethodGet, "/contacts/list?mine=true", "bob-token")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, body["result"])

	rec, body = do(e, http.MethodGet, "/mypage", "alice-token")
	require.Equal(t, http.StatusOK, rec.Code)
	page := body["result"].(map[string]interface{})
	assert.Equal(t, "alice", page["nickname"])
	assert.Nil(t, page["firstTime"], "only the request creating the user is the first time")
	assert.Len(t, page["identities"], 2)
	assert.Len(t, page["contacts"], 1)

	rec, body = do(e, http.MethodGet, "/contacts/delete/1", "alice-token")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["result"])

	rec, body = do(e, http.MethodGet, "/contacts/get/1", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "contact 1 not found", body["message"])
}

func TestRoutes_FirstTime(t *testing.T) {
	e := newTestServer(t, 10)

	_, body := do(e, http.MethodGet, "/mypage", "bob-token")
	page := body["result"].(map[string]interface{})
	assert.Equal(t, true, page["firstTime"])
	assert.Equal(t, "github|2", page["auth0_sub"])
}

func TestRoutes_RateLimitedWrites(t *testing.T) {
	e := newTestServer(t, 2)

	for i := 0; i < 2; i++ {
		rec, _ := do(e, http.MethodGet, "/contacts/new?name=n&email=e", "alice-token")
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec, body := do(e, http.MethodGet, "/contacts/new?name=n&email=e", "alice-token")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	// Another caller has its own bucket and reads are not limited
	rec, _ = do(e, http.MethodGet, "/contacts/new?name=n&email=e", "bob-token")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = do(e, http.MethodGet, "/contacts/list", "alice-token")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRoutes_Misc(t *testing.T) {
	e := newTestServer(t, 10)

	rec, _ := do(e, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec, body := do(e, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])

	rec, body = do(e, http.MethodGet, "/contacts/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, body["success"])

	rec, body = do(e, http.MethodGet, "/contacts/list", "forged")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid token", body["message"])
}

func TestRoutes_OpenAPI(t *testing.T) {
	e := newTestServer(t, 10)

	rec, body := do(e, http.MethodGet, "/openapi.json", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "3.0.3", body["openapi"])

	paths := body["paths"].(map[string]interface{})
	require.Contains(t, paths, "/contacts/new")

	create := paths["/contacts/new"].(map[string]interface{})["post"].(map[string]interface{})
	requestBody := create["requestBody"].(map[string]interface{})
	content := requestBody["content"].(map[string]interface{})
	schema := content["multipart/form-data"].(map[string]interface{})["schema"].(map[string]interface{})
	props := schema["properties"].(map[string]interface{})
	assert.Equal(t, "binary", props["image"].(map[string]interface{})["format"])
	assert.ElementsMatch(t, []interface{}{"name", "email"}, schema["required"])
}
