package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hospital-device-risk/platform-api/internal/core/domain"
)

func TestHTTPErrorHandler_DomainErrorMapping(t *testing.T) {
	for _, tc := range []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "could not validate credentials"},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "only super admins can access this endpoint"},
		{"username taken", domain.ErrUsernameTaken, http.StatusConflict, "Username already exists"},
		{"email taken", domain.ErrEmailTaken, http.StatusConflict, "Email already registered"},
		{"not found", domain.ErrPrincipalNotFound, http.StatusNotFound, "principal not found"},
		{"unexpected", errors.New("mongo exploded"), http.StatusInternalServerError, "internal server error"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			handler := NewHTTPErrorHandler(zerolog.Nop())
			handler(tc.err, c)

			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, rec.Code)
			}

			var resp map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp["error"] != tc.wantMsg {
				t.Fatalf("expected %q, got %q", tc.wantMsg, resp["error"])
			}
		})
	}
}

func TestHTTPErrorHandler_UnauthorizedSetsChallenge(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(domain.ErrInvalidCredentials, c)

	if got := rec.Header().Get(echo.HeaderWWWAuthenticate); got != "Bearer" {
		t.Fatalf("expected WWW-Authenticate: Bearer, got %q", got)
	}
}

func TestHTTPErrorHandler_EchoErrorsPassThrough(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(echo.NewHTTPError(http.StatusBadRequest, "invalid payload"), c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
