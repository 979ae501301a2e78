// Package security hashes the owner's PIN and recovery answers. Hashes are
// PBKDF2-SHA256 encoded as "salt$hash" in raw base64 so they can live in the
// settings table as plain strings.
package security

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	iterations = 100_000
	keyLen     = 32
	saltLen    = 16
)

// HashPIN hashes a PIN or password with a fresh random salt.
func HashPIN(pin string) (string, error) {
	if pin == "" {
		return "", fmt.Errorf("pin is empty")
	}
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	hash := pbkdf2.Key([]byte(pin), salt, iterations, keyLen, sha256.New)
	return base64.RawStdEncoding.EncodeToString(salt) + "$" +
		base64.RawStdEncoding.EncodeToString(hash), nil
}

// CheckPIN verifies a PIN against a stored "salt$hash" value.
func CheckPIN(pin, stored string) bool {
	if pin == "" || stored == "" {
		return false
	}
	parts := strings.Split(stored, "$")
	if len(parts) != 2 {
		return false
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[0])
	if err != nil {
		return false
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[1])
	if err != nil {
		return false
	}
	got := pbkdf2.Key([]byte(pin), salt, iterations, len(want), sha256.New)
	return subtle.ConstantTimeCompare(got, want) == 1
}

// HashRecoveryAnswer normalizes a security-question answer before hashing so
// "Kabul", "kabul" and " kabul " all verify against the same stored hash.
func HashRecoveryAnswer(answer string) (string, error) {
	return HashPIN(normalizeAnswer(answer))
}

// CheckRecoveryAnswer verifies a normalized answer against its stored hash.
func CheckRecoveryAnswer(answer, stored string) bool {
	return CheckPIN(normalizeAnswer(answer), stored)
}

func normalizeAnswer(answer string) string {
	return strings.ToLower(strings.TrimSpace(answer))
}
