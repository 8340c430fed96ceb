package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiterWithConfig(10, 5) // 10 per minute, burst of 5
	defer rl.Stop()

	subject := "auth0|user-1"

	// First 5 requests should be allowed (burst)
	for i := 0; i < 5; i++ {
		if !rl.Allow(subject) {
			t.Errorf("Request %d should be allowed", i+1)
		}
	}

	// 6th request should be rate limited (exceeded burst)
	if rl.Allow(subject) {
		t.Error("Request 6 should be rate limited")
	}
}

func TestRateLimiter_DifferentSubjects(t *testing.T) {
	rl := NewRateLimiterWithConfig(10, 3)
	defer rl.Stop()

	subject1 := "auth0|user-1"
	subject2 := "auth0|user-2"

	// Exhaust subject1's burst
	for i := 0; i < 3; i++ {
		if !rl.Allow(subject1) {
			t.Errorf("Subject1 request %d should be allowed", i+1)
		}
	}

	// Subject1 should be rate limited
	if rl.Allow(subject1) {
		t.Error("Subject1 should be rate limited")
	}

	// Subject2 should still have its full burst
	for i := 0; i < 3; i++ {
		if !rl.Allow(subject2) {
			t.Errorf("Subject2 request %d should be allowed", i+1)
		}
	}
}

func TestRateLimitMiddleware_LimitsAuthenticatedSubject(t *testing.T) {
	e := echo.New()
	rl := NewRateLimiterWithConfig(10, 2) // Small burst for testing
	defer rl.Stop()

	subject := "auth0|rate-limited-user"

	handler := func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	}

	newCtx := func() echo.Context {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/prompts", nil)
		ctx := context.WithValue(req.Context(), AuthIDKey, subject)
		rec := httptest.NewRecorder()
		return e.NewContext(req.WithContext(ctx), rec)
	}

	// First 2 requests should succeed (burst)
	for i := 0; i < 2; i++ {
		if err := rl.Limit()(handler)(newCtx()); err != nil {
			t.Fatalf("Request %d: Expected no error, got %v", i+1, err)
		}
	}

	// 3rd request should be rate limited
	err := rl.Limit()(handler)(newCtx())
	if err == nil {
		t.Fatal("Expected rate limit error")
	}
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("Expected *echo.HTTPError, got %T", err)
	}
	if he.Code != http.StatusTooManyRequests {
		t.Errorf("Expected status 429, got %d", he.Code)
	}
}

func TestRateLimitMiddleware_FallsBackToClientIP(t *testing.T) {
	e := echo.New()
	rl := NewRateLimiterWithConfig(10, 1)
	defer rl.Stop()

	handler := func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	}

	newCtx := func(ip string) echo.Context {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/prompts", nil)
		req.RemoteAddr = ip + ":12345"
		rec := httptest.NewRecorder()
		return e.NewContext(req, rec)
	}

	// No auth subject in context, so the client IP is the bucket key.
	if err := rl.Limit()(handler)(newCtx("10.0.0.1")); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := rl.Limit()(handler)(newCtx("10.0.0.1")); err == nil {
		t.Error("Second request from same IP should be rate limited")
	}

	// A different IP gets its own bucket.
	if err := rl.Limit()(handler)(newCtx("10.0.0.2")); err != nil {
		t.Fatalf("Expected no error for different IP, got %v", err)
	}
}
