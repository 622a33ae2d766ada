package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hospital-device-risk/platform-api/internal/api/metrics"
	"github.com/hospital-device-risk/platform-api/internal/core/domain"
	"github.com/hospital-device-risk/platform-api/internal/core/ports"
)

// PrincipalKey is the echo context key under which Authenticate stores the
// resolved principal.
const PrincipalKey = "principal"

// Authenticate validates the bearer token and re-resolves the live principal
// from the credential store on every request, so deactivation takes effect
// immediately. The resolved principal is injected into the request context.
//
// Every failure mode renders the same generic 401 via the central error
// handler; the response never reveals which check failed.
func Authenticate(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return domain.ErrInvalidCredentials
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return domain.ErrInvalidCredentials
			}

			p, err := auth.CurrentPrincipal(c.Request().Context(), parts[1])
			if err != nil {
				metrics.TokenVerificationsTotal.WithLabelValues("rejected").Inc()
				return err
			}
			metrics.TokenVerificationsTotal.WithLabelValues("ok").Inc()

			c.Set(PrincipalKey, p)
			return next(c)
		}
	}
}

// PrincipalFrom extracts the principal injected by Authenticate.
func PrincipalFrom(c echo.Context) (*domain.Principal, bool) {
	p, ok := c.Get(PrincipalKey).(*domain.Principal)
	return p, ok && p != nil
}
