package utils

import "golang.org/x/crypto/bcrypt"

// DefaultHashCost matches 12 rounds of bcrypt.
const DefaultHashCost = 12

// bcrypt only reads the first 72 bytes; longer passwords are cut there
// instead of being rejected.
const maxPasswordBytes = 72

func HashPassword(password string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword(passwordBytes(password), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), passwordBytes(password)) == nil
}

func passwordBytes(password string) []byte {
	b := []byte(password)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}
