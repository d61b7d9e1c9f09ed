package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// NewRefreshToken returns an opaque random token of nBytes entropy,
// hex-encoded. The value itself carries no claims; validity lives in the
// refresh_tokens table.
func NewRefreshToken(nBytes int) (string, error) {
	if nBytes <= 0 {
		nBytes = 32 // 256 bits by default
	}
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
