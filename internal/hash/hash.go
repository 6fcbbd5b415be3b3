package hash

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha512"
	"encoding/hex"
	"strings"
	"unicode/utf8"
)

const (
	saltLength        = 16
	minPasswordLength = 8
	passwordSymbols   = "!@#$%^&*"
)

// HashPassword returns the hex HMAC-SHA512 of password keyed by salt.
func HashPassword(password, salt string) string {
	mac := hmac.New(sha512.New, []byte(salt))
	mac.Write([]byte(password))
	return hex.EncodeToString(mac.Sum(nil))
}

func CheckPassword(hash, password, salt string) bool {
	return hmac.Equal([]byte(hash), []byte(HashPassword(password, salt)))
}

// NewSalt returns a random salt of saltLength hex characters.
func NewSalt() (string, error) {
	b := make([]byte, saltLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b)[:saltLength], nil
}

// IsPasswordValid reports whether password has at least eight characters and
// contains a lowercase letter, an uppercase letter, a digit and one of !@#$%^&*.
func IsPasswordValid(password string) bool {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return false
	}

	var lower, upper, digit, symbol bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		}
	}
	return lower && upper && digit && symbol
}
