package middleware

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/dafibh/addressbook/addressbook-backend/internal/domain"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// CustomClaims contains the custom claims from Auth0 JWT
type CustomClaims struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Nickname string `json:"nickname"`
	Picture  string `json:"picture"`
}

// Validate implements validator.CustomClaims
func (c CustomClaims) Validate(ctx context.Context) error {
	return nil
}

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// ClaimsKey is the context key for JWT claims
	ClaimsKey contextKey = "claims"
	// Auth0IDKey is the context key for the Auth0 user ID (subject)
	Auth0IDKey contextKey = "auth0_id"
	// IdentityKey is the context key for the resolved caller identity
	IdentityKey contextKey = "identity"
	// FirstTimeKey is the context key set when this request created the user
	FirstTimeKey contextKey = "first_time"
)

// Identity is the authenticated caller
type Identity struct {
	SubjectID string
	Nickname  string
}

// TokenValidator validates a raw bearer token. *validator.Validator satisfies it.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (interface{}, error)
}

// UserProvisioner records users lazily on their first authenticated request
type UserProvisioner interface {
	CreateIfNotExists(ctx context.Context, auth0Sub, nickname string) (*domain.User, error)
}

// AuthMiddleware provides JWT validation middleware
type AuthMiddleware struct {
	validator TokenValidator
	users     UserProvisioner
}

// NewAuthMiddleware creates a new AuthMiddleware with Auth0 configuration
func NewAuthMiddleware(auth0Domain, audience string, users UserProvisioner) (*AuthMiddleware, error) {
	issuerURL, err := url.Parse("https://" + auth0Domain + "/")
	if err != nil {
		return nil, err
	}

	provider := jwks.NewCachingProvider(issuerURL, 5*time.Minute)

	jwtValidator, err := validator.New(
		provider.KeyFunc,
		validator.RS256,
		issuerURL.String(),
		[]string{audience},
		validator.WithCustomClaims(func() validator.CustomClaims {
			return &CustomClaims{}
		}),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		return nil, err
	}

	return NewAuthMiddlewareWithValidator(jwtValidator, users), nil
}

// NewAuthMiddlewareWithValidator creates an AuthMiddleware around any validator
func NewAuthMiddlewareWithValidator(v TokenValidator, users UserProvisioner) *AuthMiddleware {
	return &AuthMiddleware{validator: v, users: users}
}

// Authenticate returns an Echo middleware that requires a valid JWT
func (m *AuthMiddleware) Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return unauthorizedError(c, "missing authorization header")
			}
			return m.authenticate(c, authHeader, next)
		}
	}
}

// OptionalAuthenticate lets anonymous requests through but still rejects
// requests carrying an invalid token
func (m *AuthMiddleware) OptionalAuthenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return next(c)
			}
			return m.authenticate(c, authHeader, next)
		}
	}
}

func (m *AuthMiddleware) authenticate(c echo.Context, authHeader string, next echo.HandlerFunc) error {
	// Check Bearer prefix
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return unauthorizedError(c, "invalid authorization header format")
	}

	claims, err := m.validator.ValidateToken(c.Request().Context(), parts[1])
	if err != nil {
		log.Debug().Err(err).Msg("Token validation failed")
		return unauthorizedError(c, "invalid token")
	}

	validatedClaims, ok := claims.(*validator.ValidatedClaims)
	if !ok || validatedClaims.RegisteredClaims.Subject == "" {
		return unauthorizedError(c, "invalid claims")
	}

	identity := Identity{
		SubjectID: validatedClaims.RegisteredClaims.Subject,
		Nickname:  nicknameFrom(validatedClaims),
	}

	ctx := context.WithValue(c.Request().Context(), ClaimsKey, validatedClaims)
	ctx = context.WithValue(ctx, Auth0IDKey, identity.SubjectID)
	ctx = context.WithValue(ctx, IdentityKey, identity)

	if m.users != nil {
		user, err := m.users.CreateIfNotExists(ctx, identity.SubjectID, identity.Nickname)
		if err != nil {
			log.Error().Err(err).Str("auth0_id", identity.SubjectID).Msg("User provisioning failed")
			return err
		}
		ctx = context.WithValue(ctx, FirstTimeKey, user.FirstTime)
	}

	c.SetRequest(c.Request().WithContext(ctx))

	return next(c)
}

// nicknameFrom picks the display name: nickname, then name, then email, then subject
func nicknameFrom(claims *validator.ValidatedClaims) string {
	if custom, ok := claims.CustomClaims.(*CustomClaims); ok && custom != nil {
		for _, candidate := range []string{custom.Nickname, custom.Name, custom.Email} {
			if candidate != "" {
				return candidate
			}
		}
	}
	return claims.RegisteredClaims.Subject
}

// GetAuth0ID extracts the Auth0 user ID from the context
func GetAuth0ID(c echo.Context) string {
	if id, ok := c.Request().Context().Value(Auth0IDKey).(string); ok {
		return id
	}
	return ""
}

// GetIdentity extracts the caller identity; ok is false for anonymous requests
func GetIdentity(c echo.Context) (Identity, bool) {
	identity, ok := c.Request().Context().Value(IdentityKey).(Identity)
	return identity, ok
}

// IsFirstTime reports whether this request created the caller's user record
func IsFirstTime(c echo.Context) bool {
	firstTime, _ := c.Request().Context().Value(FirstTimeKey).(bool)
	return firstTime
}

// GetClaims extracts the validated claims from the context
func GetClaims(c echo.Context) *validator.ValidatedClaims {
	if claims, ok := c.Request().Context().Value(ClaimsKey).(*validator.ValidatedClaims); ok {
		return claims
	}
	return nil
}

// GetCustomClaims extracts the custom claims from the context
func GetCustomClaims(c echo.Context) *CustomClaims {
	claims := GetClaims(c)
	if claims == nil {
		return nil
	}
	if custom, ok := claims.CustomClaims.(*CustomClaims); ok {
		return custom
	}
	return nil
}
