package utils

import (
	"regexp"
	"strings"
)

func AssertInvariant(condition bool, message string) {
	if !condition {
		panic("invariant violated - " + message)
	}
}

var (
	shortIDRegex      = regexp.MustCompile(`^[A-Za-z]+-[0-9]+$`)
	shortIDTokenRegex = regexp.MustCompile(`[A-Za-z]+-[0-9]+`)
)

// IsValidShortID reports whether s has the letter-prefix + dash + digits
// shape used for human-facing identifiers such as TC-101 or DEF-7.
func IsValidShortID(s string) bool {
	return shortIDRegex.MatchString(s)
}

// FindShortIDs returns every short-ID-shaped token found in text, in order.
func FindShortIDs(text string) []string {
	return shortIDTokenRegex.FindAllString(text, -1)
}

// NormalizeWhitespace collapses Windows/Mac line endings into \n and trims the text.
func NormalizeWhitespace(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.TrimSpace(text)
}
