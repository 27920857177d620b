package utils

import (
	"regexp"
	"strings"
)

var nonPhoneChars = regexp.MustCompile(`[^\d+]`)

var indianPhonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\+91[6-9]\d{9}$`),
	regexp.MustCompile(`^91[6-9]\d{9}$`),
	regexp.MustCompile(`^[6-9]\d{9}$`),
}

// ValidPhone reports whether the input looks like an Indian mobile number.
func ValidPhone(phone string) bool {
	if phone == "" {
		return false
	}
	cleaned := nonPhoneChars.ReplaceAllString(phone, "")
	for _, p := range indianPhonePatterns {
		if p.MatchString(cleaned) {
			return true
		}
	}
	return false
}

// NormalizePhone converts an Indian mobile number to +91XXXXXXXXXX form.
// Input that is not a phone number at all comes back stripped but unprefixed;
// callers should validate first.
func NormalizePhone(phone string) string {
	if phone == "" {
		return ""
	}
	cleaned := nonPhoneChars.ReplaceAllString(phone, "")
	cleaned = strings.TrimPrefix(cleaned, "+")
	if len(cleaned) == 10 && strings.ContainsRune("6789", rune(cleaned[0])) {
		cleaned = "91" + cleaned
	}
	return "+" + cleaned
}
