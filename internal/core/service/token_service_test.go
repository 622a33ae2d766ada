package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hospital-device-risk/platform-api/internal/core/domain"
)

func TestTokenService_IssueAndVerify(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)

	token, err := svc.Issue("alice", domain.RoleSuperAdmin, 0)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty string")
	}

	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if claims.Username != "alice" {
		t.Fatalf("expected subject alice, got %q", claims.Username)
	}
	if claims.Role != domain.RoleSuperAdmin {
		t.Fatalf("expected role %s, got %q", domain.RoleSuperAdmin, claims.Role)
	}
}

func TestTokenService_DefaultExpiry(t *testing.T) {
	svc := NewTokenService("secret", 0)

	token, err := svc.Issue("alice", domain.RoleUser, 0)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims := jwt.MapClaims{}
	if _, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	}); err != nil {
		t.Fatalf("parse token: %v", err)
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		t.Fatalf("exp claim missing or not numeric: %v", claims["exp"])
	}
	want := time.Now().Add(DefaultTokenTTL).Unix()
	if got := int64(exp); got < want-5 || got > want+5 {
		t.Fatalf("expected exp near %d, got %d", want, got)
	}
}

func TestTokenService_ExpiredToken(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)

	token, err := svc.Issue("alice", domain.RoleUser, -time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := svc.Verify(token); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for expired token, got %v", err)
	}
}

func TestTokenService_WrongSecret(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)
	other := NewTokenService("other-secret", time.Hour)

	token, err := other.Issue("alice", domain.RoleUser, 0)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := svc.Verify(token); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong secret, got %v", err)
	}
}

func TestTokenService_MalformedToken(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := svc.Verify(token); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials for %q, got %v", token, err)
		}
	}
}

func TestTokenService_MissingSubject(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)

	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": domain.RoleUser,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	token, err := raw.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := svc.Verify(token); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for missing sub, got %v", err)
	}
}

func TestTokenService_MissingRoleDefaultsToUser(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)

	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "alice",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	token, err := raw.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Role != domain.RoleUser {
		t.Fatalf("expected default role %s, got %q", domain.RoleUser, claims.Role)
	}
}

func TestTokenService_RejectsForeignAlgorithm(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)

	raw := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"sub": "alice",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	token, err := raw.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := svc.Verify(token); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for HS512 token, got %v", err)
	}
}

func TestTokenService_RejectsTokenWithoutExpiry(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)

	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "alice",
		"role": domain.RoleUser,
	})
	token, err := raw.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := svc.Verify(token); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for token without exp, got %v", err)
	}
}
