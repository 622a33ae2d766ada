package ports

import (
	"context"

	"github.com/hospital-device-risk/platform-api/internal/core/domain"
)

// UserRepository persists ordinary user principals, keyed by unique username.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.Principal, error)
	Insert(ctx context.Context, p *domain.Principal) (string, error)
	SetActive(ctx context.Context, username string, active bool) error
}

// ManufacturerRepository persists manufacturer principals. The username
// namespace is independent from the user store; email uniqueness is enforced
// here only.
type ManufacturerRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.Principal, error)
	FindByEmail(ctx context.Context, email string) (*domain.Principal, error)
	Insert(ctx context.Context, p *domain.Principal) (string, error)
	SetActive(ctx context.Context, username string, active bool) error
}
