package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha512"
	"fmt"
)

// SaltSize is the number of random bytes keyed into each password digest.
const SaltSize = 64

// HashPassword derives a salted digest for storage. Every call draws a fresh
// salt, so two users with the same password never share a digest.
func HashPassword(password string) (digest, salt []byte, err error) {
	salt = make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	mac := hmac.New(sha512.New, salt)
	mac.Write([]byte(password))
	return mac.Sum(nil), salt, nil
}

// VerifyPassword recomputes the digest with the stored salt and compares it
// in constant time, so a mismatch position leaks nothing.
func VerifyPassword(password string, digest, salt []byte) bool {
	mac := hmac.New(sha512.New, salt)
	mac.Write([]byte(password))
	return hmac.Equal(mac.Sum(nil), digest)
}
