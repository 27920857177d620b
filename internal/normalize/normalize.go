// Package normalize cleans raw feed text before classification. It strips
// HTML, collapses whitespace, and removes characters outside a conservative
// allowlist that keeps the major Indian scripts intact.
package normalize

import (
	"regexp"
	"strings"
)

var (
	htmlTagRe    = regexp.MustCompile(`<[^>]+>`)
	whitespaceRe = regexp.MustCompile(`\s+`)

	// Everything not in the allowlist is dropped: word characters,
	// whitespace, basic punctuation, and the Unicode blocks for
	// Devanagari, Bengali, Tamil, Telugu, Gujarati and Malayalam.
	disallowedRe = regexp.MustCompile("[^\\w\\s.,!?;:'\"()\\-ऀ-ॿঀ-৿஀-௿ఀ-౿઀-૿ഀ-ൿ]")
)

// Clean normalizes raw text for classification. It is idempotent:
// Clean(Clean(s)) == Clean(s).
func Clean(text string) string {
	text = htmlTagRe.ReplaceAllString(text, " ")
	text = disallowedRe.ReplaceAllString(text, " ")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// CleanLower is Clean followed by lowercasing, the form keyword
// matching operates on.
func CleanLower(text string) string {
	return strings.ToLower(Clean(text))
}
