// Package textnorm canonicalizes text for case- and diacritic-insensitive
// comparison. The same function is applied to search terms and to every
// searchable fragment so both sides of a comparison are symmetric.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes, drops combining marks and recomposes what is left.
// transform.Chain is not safe for concurrent use, so a fresh chain is built per call.
func stripMarks() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// Normalize lower-cases text, strips diacritics and trims surrounding whitespace
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	lowered := strings.ToLower(text)
	stripped, _, err := transform.String(stripMarks(), lowered)
	if err != nil {
		// Only malformed transformer state can fail here; fall back to the folded text
		stripped = lowered
	}
	return strings.TrimSpace(stripped)
}

// Contains reports whether normalized haystack contains an already normalized needle
func Contains(haystack, normalizedNeedle string) bool {
	if normalizedNeedle == "" {
		return true
	}
	return strings.Contains(Normalize(haystack), normalizedNeedle)
}
