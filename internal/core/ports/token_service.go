package ports

import "time"

// TokenClaims are the identity claims decoded from a verified bearer token.
type TokenClaims struct {
	Username string
	Role     string
}

// TokenService issues and verifies signed, self-contained bearer tokens.
// Tokens are unrevocable before their natural expiry; there is no blacklist
// or refresh mechanism.
type TokenService interface {
	Issue(username, role string, ttl time.Duration) (string, error)
	Verify(token string) (TokenClaims, error)
}
