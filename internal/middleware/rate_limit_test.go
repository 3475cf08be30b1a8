package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiterWithConfig(10, 5) // 10 per minute, burst of 5
	defer rl.Stop()

	// First 5 requests should be allowed (burst)
	for i := 0; i < 5; i++ {
		if !rl.Allow("sub:auth0|alice") {
			t.Errorf("Request %d should be allowed", i+1)
		}
	}

	if rl.Allow("sub:auth0|alice") {
		t.Error("Request 6 should be rate limited")
	}
}

func TestRateLimiter_DifferentCallers(t *testing.T) {
	rl := NewRateLimiterWithConfig(10, 3)
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		if !rl.Allow("ip:10.0.0.1") {
			t.Errorf("Caller 1 request %d should be allowed", i+1)
		}
	}
	if rl.Allow("ip:10.0.0.1") {
		t.Error("Caller 1 should be rate limited")
	}

	for i := 0; i < 3; i++ {
		if !rl.Allow("ip:10.0.0.2") {
			t.Errorf("Caller 2 request %d should be allowed", i+1)
		}
	}
}

func TestRateLimiter_EvictStale(t *testing.T) {
	rl := NewRateLimiterWithConfig(10, 3)
	defer rl.Stop()

	rl.Allow("ip:10.0.0.1")
	rl.evictStale(time.Now().Add(LimiterTTL + time.Second))

	rl.mu.RLock()
	defer rl.mu.RUnlock()
	if len(rl.limiters) != 0 {
		t.Errorf("Expected stale limiter to be evicted, %d left", len(rl.limiters))
	}
}

func TestRateLimiter_StopTwice(t *testing.T) {
	rl := NewRateLimiterWithConfig(10, 3)
	rl.Stop()
	rl.Stop()
}

func TestRateLimitMiddleware_LimitsBySubject(t *testing.T) {
	e := echo.New()
	rl := NewRateLimiterWithConfig(10, 2)
	defer rl.Stop()

	handler := func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	}

	newContext := func() (echo.Context, *httptest.ResponseRecorder) {
		req := httptest.NewRequest(http.MethodPost, "/contacts/new", nil)
		ctx := context.WithValue(req.Context(), Auth0IDKey, "auth0|alice")
		rec := httptest.NewRecorder()
		return e.NewContext(req.WithContext(ctx), rec), rec
	}

	for i := 0; i < 2; i++ {
		c, rec := newContext()
		if err := RateLimitMiddleware(rl)(handler)(c); err != nil {
			t.Fatalf("Request %d: Expected no error, got %v", i+1, err)
		}
		if rec.Code != http.StatusOK {
			t.Errorf("Request %d: Expected status 200, got %d", i+1, rec.Code)
		}
		if rec.Header().Get("X-RateLimit-Limit") != "10" {
			t.Errorf("Request %d: Expected X-RateLimit-Limit 10, got %q", i+1, rec.Header().Get("X-RateLimit-Limit"))
		}
	}

	c, rec := newContext()
	if err := RateLimitMiddleware(rl)(handler)(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("Expected status 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("Expected Retry-After header")
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	if body["success"] != false || body["message"] == "" {
		t.Errorf("Expected failure envelope, got %v", body)
	}
}

func TestCallerKey(t *testing.T) {
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	c := e.NewContext(req, httptest.NewRecorder())
	if got := callerKey(c); got != "ip:192.0.2.1" {
		t.Errorf("Expected ip key, got %q", got)
	}

	ctx := context.WithValue(req.Context(), Auth0IDKey, "github|2")
	c.SetRequest(req.WithContext(ctx))
	if got := callerKey(c); got != "sub:github|2" {
		t.Errorf("Expected subject key, got %q", got)
	}
}
