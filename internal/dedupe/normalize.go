// Package dedupe detects duplicate submissions before they are persisted.
//
// It exposes the text Normalizer and Similarity Scorer as pure functions and
// evaluates declarative per-entity duplicate policies against existing records.
package dedupe

import (
	"strings"
	"unicode"
)

// Normalize trims, lowercases and collapses every run of whitespace into a
// single space.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(text))

	pendingSpace := false
	for _, r := range strings.TrimSpace(text) {
		if unicode.IsSpace(r) {
			pendingSpace = true
			continue
		}
		if pendingSpace {
			b.WriteByte(' ')
			pendingSpace = false
		}
		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}

// NormalizeAny normalizes v when it is a string and returns "" otherwise.
func NormalizeAny(v any) string {
	switch typed := v.(type) {
	case string:
		return Normalize(typed)
	case *string:
		if typed == nil {
			return ""
		}
		return Normalize(*typed)
	default:
		return ""
	}
}
