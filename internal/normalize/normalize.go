// Package normalize derives the short, stable matching key used for
// dictionary lookups and deduplication of transaction descriptions.
package normalize

import (
	"strings"
	"unicode"
)

// maxShortLength is the window of a raw description considered meaningful.
// Everything past it is bank noise (references, terminal ids).
const maxShortLength = 30

// ShortDescription derives the matching key from a raw transaction
// description: trim, keep the first 30 characters, and cut at the start of
// any run of 4 or more consecutive digits inside that window so that
// transaction and reference numbers never influence match scoring.
// Empty input yields an empty string, never an error.
func ShortDescription(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	r := []rune(s)
	if len(r) > maxShortLength {
		r = r[:maxShortLength]
	}

	run := 0
	for i, c := range r {
		if !unicode.IsDigit(c) {
			run = 0
			continue
		}
		run++
		if run == 4 {
			r = r[:i-3]
			break
		}
	}

	return strings.TrimSpace(string(r))
}

// Fold returns the case-insensitive, whitespace-collapsed form of s used
// for similarity scoring. Matching operates on folded text only; the
// original short description is preserved as a display value.
func Fold(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
