package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// RandomTokenHex returns nBytes of crypto randomness, hex encoded.
func RandomTokenHex(nBytes int) (string, error) {
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
