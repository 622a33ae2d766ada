package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/hospital-device-risk/platform-api/internal/core/domain"
	"github.com/hospital-device-risk/platform-api/internal/core/ports"
	"github.com/hospital-device-risk/platform-api/internal/pkg/hash"
)

// Singleton super-admin identity, created at process start when absent.
const (
	SuperAdminUsername = "admin"
	superAdminEmail    = "admin@hospital-device-risk.com"
	superAdminPassword = "admin123"
)

// AuthService implements credential verification, manufacturer registration,
// token-based principal resolution, and the super-admin bootstrap.
type AuthService struct {
	users         ports.UserRepository
	manufacturers ports.ManufacturerRepository
	tokens        ports.TokenService
	hasher        hash.Hasher
	log           zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	manufacturers ports.ManufacturerRepository,
	tokens ports.TokenService,
	hasher hash.Hasher,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:         users,
		manufacturers: manufacturers,
		tokens:        tokens,
		hasher:        hasher,
		log:           log,
	}
}

// Authenticate verifies a username/password pair. The user store is checked
// first; once a user record is found the password is verified against it
// only. A wrong password never falls through to the manufacturer store, so a
// user record shadows a manufacturer with the same username.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*domain.Principal, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	switch {
	case err == nil:
		if !s.hasher.Verify(password, user.PasswordHash) {
			return nil, domain.ErrInvalidCredentials
		}
		return user, nil
	case errors.Is(err, domain.ErrPrincipalNotFound):
		return s.AuthenticateManufacturer(ctx, username, password)
	default:
		return nil, fmt.Errorf("find user: %w", err)
	}
}

// AuthenticateManufacturer verifies credentials against the manufacturer
// store only, with no fallback to the user store.
func (s *AuthService) AuthenticateManufacturer(ctx context.Context, username, password string) (*domain.Principal, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	m, err := s.manufacturers.FindByUsername(ctx, username)
	if errors.Is(err, domain.ErrPrincipalNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find manufacturer: %w", err)
	}
	if !s.hasher.Verify(password, m.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	m.Role = domain.RoleManufacturer
	return m, nil
}

// Login authenticates and mints a bearer token with the principal's role.
// Inactive principals never obtain a token.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.Principal, error) {
	return s.login(ctx, username, password, s.Authenticate)
}

// LoginManufacturer is the dedicated manufacturer login path.
func (s *AuthService) LoginManufacturer(ctx context.Context, username, password string) (string, *domain.Principal, error) {
	return s.login(ctx, username, password, s.AuthenticateManufacturer)
}

func (s *AuthService) login(
	ctx context.Context,
	username, password string,
	authenticate func(context.Context, string, string) (*domain.Principal, error),
) (string, *domain.Principal, error) {
	p, err := authenticate(ctx, username, password)
	if err != nil {
		return "", nil, err
	}
	if !p.IsActive {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(p.Username, p.Role, 0)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	s.log.Info().Str("username", p.Username).Str("role", p.Role).Msg("login succeeded")
	return token, p, nil
}

// RegisterManufacturer creates a manufacturer account. Uniqueness is probed
// with two ordered queries, username first and then email, short-circuiting
// on the first conflict. The returned id is an opaque store identifier.
func (s *AuthService) RegisterManufacturer(ctx context.Context, username, email, password, companyName string) (string, error) {
	if _, err := s.manufacturers.FindByUsername(ctx, username); err == nil {
		return "", domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrPrincipalNotFound) {
		return "", fmt.Errorf("check username: %w", err)
	}

	if _, err := s.manufacturers.FindByEmail(ctx, email); err == nil {
		return "", domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrPrincipalNotFound) {
		return "", fmt.Errorf("check email: %w", err)
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	id, err := s.manufacturers.Insert(ctx, &domain.Principal{
		Kind:         domain.KindManufacturer,
		Username:     username,
		Email:        email,
		PasswordHash: digest,
		CompanyName:  companyName,
		IsActive:     true,
		Role:         domain.RoleManufacturer,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return "", err
	}

	s.log.Info().Str("username", username).Str("company", companyName).Msg("manufacturer registered")
	return id, nil
}

// CurrentPrincipal verifies the token and re-resolves the principal from
// storage on every call, so deactivation takes effect immediately instead of
// waiting for token expiry.
func (s *AuthService) CurrentPrincipal(ctx context.Context, token string) (*domain.Principal, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	p, err := s.users.FindByUsername(ctx, claims.Username)
	if errors.Is(err, domain.ErrPrincipalNotFound) {
		p, err = s.manufacturers.FindByUsername(ctx, claims.Username)
		if errors.Is(err, domain.ErrPrincipalNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
	}
	if err != nil {
		return nil, fmt.Errorf("resolve principal: %w", err)
	}
	if !p.IsActive {
		return nil, domain.ErrInvalidCredentials
	}

	// The token's role claim wins over the stored role: a role change made
	// after issuance only takes effect once the old token expires.
	p.Role = claims.Role

	return p, nil
}

// RequireSuperAdmin passes the principal through unchanged when it holds the
// super_admin role. Anything else fails with ErrForbidden, never with
// ErrInvalidCredentials: the caller is authenticated, just not privileged.
func RequireSuperAdmin(p *domain.Principal) (*domain.Principal, error) {
	if p == nil || p.Role != domain.RoleSuperAdmin {
		return nil, domain.ErrForbidden
	}
	return p, nil
}

// SetPrincipalActive toggles is_active on the user with the given username,
// falling back to the manufacturer store when no user record exists.
func (s *AuthService) SetPrincipalActive(ctx context.Context, username string, active bool) error {
	err := s.users.SetActive(ctx, username, active)
	if errors.Is(err, domain.ErrPrincipalNotFound) {
		err = s.manufacturers.SetActive(ctx, username, active)
	}
	if errors.Is(err, domain.ErrPrincipalNotFound) {
		return domain.ErrPrincipalNotFound
	}
	if err != nil {
		return fmt.Errorf("set active: %w", err)
	}

	s.log.Info().Str("username", username).Bool("active", active).Msg("principal status updated")
	return nil
}

// EnsureSuperAdmin creates the super-admin user when absent. Idempotent: it
// checks existence before inserting, and the unique username index is the
// final arbiter when concurrent replicas race.
func (s *AuthService) EnsureSuperAdmin(ctx context.Context) error {
	_, err := s.users.FindByUsername(ctx, SuperAdminUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrPrincipalNotFound) {
		return fmt.Errorf("find super admin: %w", err)
	}

	digest, err := s.hasher.Hash(superAdminPassword)
	if err != nil {
		return fmt.Errorf("hash super admin password: %w", err)
	}

	_, err = s.users.Insert(ctx, &domain.Principal{
		Kind:         domain.KindUser,
		Username:     SuperAdminUsername,
		Email:        superAdminEmail,
		PasswordHash: digest,
		IsActive:     true,
		Role:         domain.RoleSuperAdmin,
		CreatedAt:    time.Now().UTC(),
	})
	if errors.Is(err, domain.ErrUsernameTaken) {
		// Another replica won the race.
		return nil
	}
	if err != nil {
		return fmt.Errorf("insert super admin: %w", err)
	}

	s.log.Info().Str("username", SuperAdminUsername).Msg("super admin user created")
	return nil
}
