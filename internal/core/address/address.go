// Package address is the coarse admission filter for submitted blockchain addresses.
// It checks shape only: no checksum or chain specific rules are applied
package address

import "strings"

const (
	// MinLen is the shortest accepted address
	MinLen = 26
	// MaxLen is the longest accepted address
	MaxLen = 64
)

// IsValid reports whether candidate, once trimmed, is 26..64 ASCII letters or digits
func IsValid(candidate string) bool {
	_, ok := Normalize(candidate)
	return ok
}

// Normalize trims surrounding whitespace and returns the address when it is valid
func Normalize(candidate string) (string, bool) {
	s := strings.TrimSpace(candidate)
	if len(s) < MinLen || len(s) > MaxLen {
		return "", false
	}
	for i := 0; i < len(s); i++ {
		if !isAlnum(s[i]) {
			return "", false
		}
	}
	return s, true
}

func isAlnum(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
