package common

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"
	"strconv"
)

// MakeRandHexString generates a random hexadecimal string of the given size.
// The size parameter specifies the number of random bytes to generate before
// encoding them as a hexadecimal string, so the final string length is twice
// the size. It returns an error if the random number generator fails.
func MakeRandHexString(size int) (string, error) {

	b := make([]byte, size)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}

// GenerateRandByteArray returns size cryptographically random bytes.
func GenerateRandByteArray(size int) []byte {
	b := make([]byte, size)
	_, _ = rand.Read(b)
	return b
}

// MakeRandNumericCode returns a random numeric code of exactly n digits.
// The first digit is never zero, matching the usual presentation of
// one-time codes.
func MakeRandNumericCode(n int) (string, error) {
	lo := int64(1)
	for i := 1; i < n; i++ {
		lo *= 10
	}
	v, err := rand.Int(rand.Reader, big.NewInt(lo*9))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(lo+v.Int64(), 10), nil
}

// WipeByteArray overwrites the contents of the provided byte slice with
// zeros. Useful for removing sensitive data such as plaintext passwords
// from memory after use. If the slice is nil, the function does nothing.
func WipeByteArray(b []byte) {
	if b == nil {
		return
	}
	for i := range b {
		b[i] = 0
	}
}
