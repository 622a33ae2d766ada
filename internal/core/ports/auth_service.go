package ports

import (
	"context"

	"github.com/hospital-device-risk/platform-api/internal/core/domain"
)

type AuthService interface {
	// Authenticate resolves the username against the user store first, then
	// the manufacturer store, and verifies the password against whichever
	// record was found. A user record shadows a manufacturer with the same
	// username.
	Authenticate(ctx context.Context, username, password string) (*domain.Principal, error)

	// AuthenticateManufacturer checks the manufacturer store only.
	AuthenticateManufacturer(ctx context.Context, username, password string) (*domain.Principal, error)

	// Login and LoginManufacturer authenticate and mint a bearer token.
	// Inactive principals never obtain a token.
	Login(ctx context.Context, username, password string) (string, *domain.Principal, error)
	LoginManufacturer(ctx context.Context, username, password string) (string, *domain.Principal, error)

	// RegisterManufacturer creates a manufacturer account, returning the new
	// record's opaque id. Duplicate username or email returns
	// domain.ErrUsernameTaken / domain.ErrEmailTaken.
	RegisterManufacturer(ctx context.Context, username, email, password, companyName string) (string, error)

	// CurrentPrincipal verifies the token and re-resolves the principal from
	// storage so deactivation takes effect without waiting for expiry.
	CurrentPrincipal(ctx context.Context, token string) (*domain.Principal, error)

	// SetPrincipalActive toggles is_active on the user or, failing that, the
	// manufacturer with the given username.
	SetPrincipalActive(ctx context.Context, username string, active bool) error

	// EnsureSuperAdmin creates the singleton super-admin user when absent.
	EnsureSuperAdmin(ctx context.Context) error
}
