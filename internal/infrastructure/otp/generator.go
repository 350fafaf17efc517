package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
)

const (
	// CodeLength is the number of digits in a verification code
	CodeLength = 6

	codeMin  = 100000
	codeSpan = 900000 // codes are drawn uniformly from [100000, 999999]
)

// GenerateCode produces a 6-digit verification code using a cryptographically
// secure source. Every value in [100000, 999999] is equally likely.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpan))
	if err != nil {
		return "", fmt.Errorf("failed to generate random code: %w", err)
	}
	return strconv.FormatInt(n.Int64()+codeMin, 10), nil
}

// IsCodeFormat checks if input looks like a verification code (6 digits).
func IsCodeFormat(code string) bool {
	if len(code) != CodeLength {
		return false
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
