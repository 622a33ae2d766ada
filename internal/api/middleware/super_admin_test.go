package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/hospital-device-risk/platform-api/internal/core/domain"
)

func TestSuperAdminOnly_AllowsSuperAdmin(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.Set(PrincipalKey, &domain.Principal{Username: "admin", Role: domain.RoleSuperAdmin, IsActive: true})

	called := false
	handler := SuperAdminOnly()(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestSuperAdminOnly_ForbidsOtherRoles(t *testing.T) {
	e := echo.New()

	for _, role := range []string{domain.RoleUser, domain.RoleManufacturer, "admin"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.Set(PrincipalKey, &domain.Principal{Username: "someone", Role: role, IsActive: true})

		handler := SuperAdminOnly()(func(c echo.Context) error {
			t.Fatalf("should not reach next for role %q", role)
			return nil
		})

		err := handler(c)
		if !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("expected ErrForbidden for role %q, got %v", role, err)
		}
	}
}

func TestSuperAdminOnly_MissingPrincipal(t *testing.T) {
	// Running without Authenticate upstream is an authentication failure,
	// not a forbidden one.
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	handler := SuperAdminOnly()(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
