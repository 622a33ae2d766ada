package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/hospital-device-risk/platform-api/internal/core/domain"
	"github.com/hospital-device-risk/platform-api/internal/core/service"
)

// SuperAdminOnly gates a route to principals holding the super_admin role.
// It layers on top of Authenticate: a missing principal is an authentication
// failure (401), while a present but under-privileged one is forbidden (403).
func SuperAdminOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFrom(c)
			if !ok {
				return domain.ErrInvalidCredentials
			}
			if _, err := service.RequireSuperAdmin(p); err != nil {
				return err
			}
			return next(c)
		}
	}
}
