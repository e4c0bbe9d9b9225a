package models

import (
	"crypto/rand"
	"fmt"
)

// GenerateCode draws CodeLength characters uniformly from CodeAlphabet. The
// alphabet has 32 symbols so masking a random byte to five bits is unbiased.
func GenerateCode() (string, error) {
	buf := make([]byte, CodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	for i, b := range buf {
		buf[i] = CodeAlphabet[b&31]
	}
	return string(buf), nil
}
