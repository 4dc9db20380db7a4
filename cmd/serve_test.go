package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/xingkongliang/text-to-speech-app/internal/api"
	"github.com/xingkongliang/text-to-speech-app/internal/i18n"
)

func preflight(e *echo.Echo, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/speech/save", nil)
	req.Header.Set(echo.HeaderOrigin, origin)
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestNewHTTPServer_NoCORSByDefault(t *testing.T) {
	e := newHTTPServer(nil, api.Dependencies{Labels: i18n.English, Logger: zap.NewNop()})

	rec := preflight(e, "https://evil.example")
	if got := rec.Header().Get(echo.HeaderAccessControlAllowOrigin); got != "" {
		t.Errorf("Expected no Access-Control-Allow-Origin, got %q", got)
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(echo.HeaderOrigin, "https://evil.example")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 from health, got %d", rec.Code)
	}
	if got := rec.Header().Get(echo.HeaderAccessControlAllowOrigin); got != "" {
		t.Errorf("Expected no Access-Control-Allow-Origin, got %q", got)
	}
}

func TestNewHTTPServer_AllowsConfiguredOrigins(t *testing.T) {
	e := newHTTPServer([]string{"http://localhost:3000"}, api.Dependencies{Labels: i18n.English, Logger: zap.NewNop()})

	rec := preflight(e, "http://localhost:3000")
	if got := rec.Header().Get(echo.HeaderAccessControlAllowOrigin); got != "http://localhost:3000" {
		t.Errorf("Expected configured origin to be allowed, got %q", got)
	}

	rec = preflight(e, "https://evil.example")
	if got := rec.Header().Get(echo.HeaderAccessControlAllowOrigin); got != "" {
		t.Errorf("Expected unlisted origin to be refused, got %q", got)
	}
}
