package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hospital-device-risk/platform-api/internal/core/domain"
	"github.com/hospital-device-risk/platform-api/internal/core/ports"
)

// DefaultTokenTTL applies when a caller does not specify an expiry.
const DefaultTokenTTL = 15 * time.Minute

// TokenService issues and verifies HS256-signed bearer tokens carrying
// subject, role, and expiry claims. Tokens are self-contained: there is no
// server-side session state, and logout is purely client-side discard.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Issue mints a token for the given subject and role. A zero ttl means "use
// the service default"; a negative ttl produces an already-expired token.
func (s *TokenService) Issue(username, role string, ttl time.Duration) (string, error) {
	if ttl == 0 {
		ttl = s.ttl
	}

	claims := jwt.MapClaims{
		"sub":  username,
		"role": role,
		"exp":  time.Now().Add(ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry and decodes the identity claims.
// Bad signature, wrong algorithm, malformed or expired token, and a missing
// subject all collapse to domain.ErrInvalidCredentials.
func (s *TokenService) Verify(token string) (ports.TokenClaims, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return ports.TokenClaims{}, domain.ErrInvalidCredentials
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return ports.TokenClaims{}, domain.ErrInvalidCredentials
	}
	role, _ := claims["role"].(string)
	if role == "" {
		role = domain.RoleUser
	}

	return ports.TokenClaims{Username: sub, Role: role}, nil
}
