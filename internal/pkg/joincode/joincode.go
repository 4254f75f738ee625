// Package joincode issues the opaque codes participants and vendors use to
// identify themselves.
package joincode

import (
	"crypto/rand"
	"fmt"
	"strings"
)

const (
	Length   = 16
	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// 252 is the largest multiple of len(alphabet) below 256. Bytes at or above
// it are discarded so every symbol is equally likely.
const maxUnbiased = 256 - 256%len(alphabet)

// Generate returns a fresh code of Length characters from [A-Z0-9].
func Generate() (string, error) {
	var sb strings.Builder
	sb.Grow(Length)

	buf := make([]byte, Length*2)
	for sb.Len() < Length {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("rand.Read -> %w", err)
		}
		for _, b := range buf {
			if int(b) >= maxUnbiased {
				continue
			}
			sb.WriteByte(alphabet[int(b)%len(alphabet)])
			if sb.Len() == Length {
				break
			}
		}
	}

	return sb.String(), nil
}

// Normalize makes lookups case-insensitive.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Valid reports whether code has the shape of an issued code.
func Valid(code string) bool {
	if len(code) != Length {
		return false
	}
	for i := 0; i < len(code); i++ {
		if !strings.ContainsRune(alphabet, rune(code[i])) {
			return false
		}
	}

	return true
}
