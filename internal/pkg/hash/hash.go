// Package hash provides one-way password hashing with verification.
//
// bcrypt is the primary scheme. When bcrypt fails a startup self-test the
// hasher falls back to PBKDF2-SHA256 for new digests without changing the
// contract; stored digests of either scheme always verify.
package hash

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

const (
	pbkdf2Prefix     = "$pbkdf2-sha256$"
	pbkdf2Iterations = 29000
	pbkdf2SaltLen    = 16
	pbkdf2KeyLen     = 32
)

// Hasher hashes passwords and verifies candidates against stored digests.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) bool
}

type hasher struct {
	cost     int
	bcryptOK bool
}

// New returns a Hasher using bcrypt at the given cost. A cost outside
// bcrypt's valid range is replaced with bcrypt.DefaultCost.
func New(cost int) Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	_, err := bcrypt.GenerateFromPassword([]byte("probe"), bcrypt.MinCost)
	return &hasher{cost: cost, bcryptOK: err == nil}
}

func (h *hasher) Hash(password string) (string, error) {
	if h.bcryptOK {
		digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
		if err != nil {
			return "", fmt.Errorf("bcrypt hash: %w", err)
		}
		return string(digest), nil
	}
	return pbkdf2Hash(password)
}

// Verify dispatches on the digest prefix so records written under either
// scheme keep verifying after a fallback. Malformed digests verify false.
func (h *hasher) Verify(password, encoded string) bool {
	if strings.HasPrefix(encoded, pbkdf2Prefix) {
		return pbkdf2Verify(password, encoded)
	}
	return bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password)) == nil
}

func pbkdf2Hash(password string) (string, error) {
	salt := make([]byte, pbkdf2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	dk := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, pbkdf2KeyLen, sha256.New)

	enc := base64.RawStdEncoding
	return fmt.Sprintf("%s%d$%s$%s",
		pbkdf2Prefix, pbkdf2Iterations,
		enc.EncodeToString(salt), enc.EncodeToString(dk)), nil
}

func pbkdf2Verify(password, encoded string) bool {
	parts := strings.Split(strings.TrimPrefix(encoded, pbkdf2Prefix), "$")
	if len(parts) != 3 {
		return false
	}
	iter, err := strconv.Atoi(parts[0])
	if err != nil || iter <= 0 {
		return false
	}

	enc := base64.RawStdEncoding
	salt, err := enc.DecodeString(parts[1])
	if err != nil {
		return false
	}
	want, err := enc.DecodeString(parts[2])
	if err != nil || len(want) == 0 {
		return false
	}

	got := pbkdf2.Key([]byte(password), salt, iter, len(want), sha256.New)
	return subtle.ConstantTimeCompare(got, want) == 1
}
