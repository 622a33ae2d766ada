package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/hospital-device-risk/platform-api/internal/core/domain"
)

// stubAuthService implements ports.AuthService; only the hooks a test sets
// are expected to be called.
type stubAuthService struct {
	currentFn func(ctx context.Context, token string) (*domain.Principal, error)
}

func (s *stubAuthService) Authenticate(context.Context, string, string) (*domain.Principal, error) {
	panic("not expected")
}

func (s *stubAuthService) AuthenticateManufacturer(context.Context, string, string) (*domain.Principal, error) {
	panic("not expected")
}

func (s *stubAuthService) Login(context.Context, string, string) (string, *domain.Principal, error) {
	panic("not expected")
}

func (s *stubAuthService) LoginManufacturer(context.Context, string, string) (string, *domain.Principal, error) {
	panic("not expected")
}

func (s *stubAuthService) RegisterManufacturer(context.Context, string, string, string, string) (string, error) {
	panic("not expected")
}

func (s *stubAuthService) CurrentPrincipal(ctx context.Context, token string) (*domain.Principal, error) {
	return s.currentFn(ctx, token)
}

func (s *stubAuthService) SetPrincipalActive(context.Context, string, bool) error {
	panic("not expected")
}

func (s *stubAuthService) EnsureSuperAdmin(context.Context) error {
	panic("not expected")
}

func TestAuthenticate_ValidToken(t *testing.T) {
	e := echo.New()
	stub := &stubAuthService{
		currentFn: func(_ context.Context, token string) (*domain.Principal, error) {
			if token != "tok123" {
				t.Fatalf("unexpected token: %q", token)
			}
			return &domain.Principal{Username: "alice", Role: domain.RoleSuperAdmin, IsActive: true}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer tok123")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Authenticate(stub)(func(c echo.Context) error {
		called = true
		p, ok := PrincipalFrom(c)
		if !ok || p.Username != "alice" {
			t.Fatalf("principal not injected: %+v", p)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	e := echo.New()
	stub := &stubAuthService{
		currentFn: func(context.Context, string) (*domain.Principal, error) {
			t.Fatalf("service must not be called without a header")
			return nil, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	handler := Authenticate(stub)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthenticate_InvalidHeaderFormat(t *testing.T) {
	e := echo.New()
	stub := &stubAuthService{
		currentFn: func(context.Context, string) (*domain.Principal, error) {
			t.Fatalf("service must not be called for a malformed header")
			return nil, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Token abc")
	c := e.NewContext(req, httptest.NewRecorder())

	handler := Authenticate(stub)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthenticate_RejectedToken(t *testing.T) {
	e := echo.New()
	stub := &stubAuthService{
		currentFn: func(context.Context, string) (*domain.Principal, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer expired-or-forged")
	c := e.NewContext(req, httptest.NewRecorder())

	handler := Authenticate(stub)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
