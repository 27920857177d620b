package utils

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
)

// HashString generates a SHA1 hash of a string
func HashString(s string) string {
	h := sha1.Sum([]byte(s))
	return hex.EncodeToString(h[:])
}

// HashFields generates a stable SHA1 key from multiple fields,
// used for event identifiers and dedupe keys.
func HashFields(fields ...string) string {
	return HashString(strings.Join(fields, "\x1f"))
}
