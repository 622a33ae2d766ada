package domain

import (
	"errors"
	"time"
)

const (
	RoleUser         = "user"
	RoleManufacturer = "manufacturer"
	RoleSuperAdmin   = "super_admin"
)

// Kind tags which credential collection a Principal was resolved from. The
// two collections are independent username namespaces; a username may exist
// in both, in which case the user record shadows the manufacturer one during
// authentication.
type Kind string

const (
	KindUser         Kind = "user"
	KindManufacturer Kind = "manufacturer"
)

// Principal models an authenticated identity in the system: an ordinary user
// or a manufacturer account.
type Principal struct {
	ID           string    `json:"id,omitempty"`
	Kind         Kind      `json:"kind"`
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	CompanyName  string    `json:"company_name,omitempty"`
	IsActive     bool      `json:"is_active"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrForbidden = errors.New("access forbidden")
var ErrPrincipalNotFound = errors.New("principal not found")
var ErrUsernameTaken = errors.New("username already exists")
var ErrEmailTaken = errors.New("email already registered")
