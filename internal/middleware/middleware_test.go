package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/octobees/contactdesk/internal/config"
)

func TestLoggingMiddleware(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/healthz/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(ContextKeyRequestID, "rid-123")

	err := Logging(logger)(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	entries := logs.TakeAll()
	if len(entries) != 1 {
		t.Fatalf("expected one log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["request_id"] != "rid-123" || fields["path"] != "/healthz/" || fields["status"] != int64(200) {
		t.Fatalf("unexpected log fields: %v", fields)
	}
	if entries[0].Level != zapcore.InfoLevel {
		t.Fatalf("expected info level, got %s", entries[0].Level)
	}

	// errors are rendered, logged and propagated
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.Set(ContextKeyRequestID, "rid-456")
	expected := errors.New("boom")
	err = Logging(logger)(func(c echo.Context) error {
		return expected
	})(c)
	if !errors.Is(err, expected) {
		t.Fatalf("expected error to bubble up")
	}
	entries = logs.TakeAll()
	if len(entries) != 1 || entries[0].ContextMap()["request_id"] != "rid-456" {
		t.Fatalf("expected second log entry with new request id, got %v", entries)
	}
	if entries[0].Level != zapcore.ErrorLevel || rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected error level for 500, got %s / %d", entries[0].Level, rec.Code)
	}
}

func TestSubmissionRateLimiter(t *testing.T) {
	cfg := config.RateLimitConfig{Requests: 1, Interval: time.Minute}
	mw := SubmissionRateLimiter(cfg)

	e := echo.New()
	nextCalls := 0
	next := func(c echo.Context) error {
		nextCalls++
		return c.NoContent(http.StatusOK)
	}

	post := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/contact/", nil)
		req.RemoteAddr = ip + ":5555"
		rec := httptest.NewRecorder()
		_ = mw(next)(e.NewContext(req, rec))
		return rec
	}

	if rec := post("10.0.0.1"); rec.Code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", rec.Code)
	}
	rec := post("10.0.0.1")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request rejected, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "60" {
		t.Fatalf("expected Retry-After of 60s, got %q", rec.Header().Get("Retry-After"))
	}
	if rec := post("10.0.0.2"); rec.Code != http.StatusOK {
		t.Fatalf("expected other client to have its own bucket, got %d", rec.Code)
	}

	// GET requests bypass the limiter.
	req := httptest.NewRequest(http.MethodGet, "/contact/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	rec = httptest.NewRecorder()
	_ = mw(next)(e.NewContext(req, rec))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected GET request to pass")
	}

	// zero config should behave as passthrough
	mw = SubmissionRateLimiter(config.RateLimitConfig{})
	for i := 0; i < 3; i++ {
		if rec := post("10.0.0.3"); rec.Code != http.StatusOK {
			t.Fatalf("expected passthrough when limiter disabled")
		}
	}
	if nextCalls != 6 {
		t.Fatalf("expected next handler to be invoked 6 times, got %d", nextCalls)
	}
}

func TestRequireRole(t *testing.T) {
	e := echo.New()
	mw := RequireRole("staff")

	t.Run("missing role", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		_ = mw(func(c echo.Context) error { return nil })(c)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})

	t.Run("incorrect role", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set(ContextKeyStaffRole, "viewer")

		_ = mw(func(c echo.Context) error { return nil })(c)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})

	t.Run("one of several roles", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set(ContextKeyStaffRole, "viewer")

		if err := RequireRole("staff", "viewer")(func(c echo.Context) error {
			return c.NoContent(http.StatusNoContent)
		})(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected handler to run, got %d", rec.Code)
		}
	})

	t.Run("matching role", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set(ContextKeyStaffRole, "staff")

		called := false
		if err := mw(func(c echo.Context) error {
			called = true
			return nil
		})(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !called {
			t.Fatalf("expected handler to run")
		}
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	e := echo.New()
	handler := RequestID()

	t.Run("reuse incoming header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "incoming")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		if err := handler(func(c echo.Context) error {
			if RequestIDFromContext(c) != "incoming" {
				t.Fatalf("expected request id to be stored")
			}
			return c.NoContent(http.StatusOK)
		})(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if rec.Header().Get("X-Request-ID") != "incoming" {
			t.Fatalf("expected response header to propagate request id")
		}
	})

	t.Run("replace unusable header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", strings.Repeat("x", 200))
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		if err := handler(func(c echo.Context) error {
			if rid := RequestIDFromContext(c); len(rid) != 36 {
				t.Fatalf("expected generated uuid, got %q", rid)
			}
			return c.NoContent(http.StatusOK)
		})(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("generate when missing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		if err := handler(func(c echo.Context) error {
			rid := RequestIDFromContext(c)
			if rid == "" {
				t.Fatalf("expected generated request id")
			}
			return c.NoContent(http.StatusOK)
		})(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if rec.Header().Get("X-Request-ID") == "" {
			t.Fatalf("expected response header set")
		}
	})
}
