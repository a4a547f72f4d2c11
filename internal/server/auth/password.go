package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"

	"github.com/dmitrijs2005/jobhub/internal/common"
)

const saltSize = 16

// NewSalt returns a fresh random salt for credential hashing. A new salt is
// generated on every create and every password reset.
func NewSalt() []byte {
	return common.GenerateRandByteArray(saltSize)
}

// HashPassword derives the stored credential for a plaintext password:
// HMAC-SHA256 keyed by the salt. The plaintext itself is never persisted.
func HashPassword(salt []byte, password string) []byte {
	mac := hmac.New(sha256.New, salt)
	mac.Write([]byte(password))
	return mac.Sum(nil)
}

// CheckPassword re-derives the hash with the stored salt and compares it to
// the stored hash in constant time.
func CheckPassword(salt, hash []byte, password string) bool {
	return subtle.ConstantTimeCompare(hash, HashPassword(salt, password)) == 1
}
