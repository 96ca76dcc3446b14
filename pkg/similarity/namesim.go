package similarity

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/unicode/norm"
)

// NameSimilarity returns a normalized edit-distance similarity between two
// labels in [0,1]. Labels are compared in NFC form, case-insensitively and
// with surrounding whitespace removed. Two empty labels are identical.
func NameSimilarity(a, b string) float64 {
	a = normalizeName(a)
	b = normalizeName(b)
	if a == b {
		return 1
	}

	maxLen := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if maxLen == 0 {
		return 1
	}

	dist := levenshtein.ComputeDistance(a, b)
	return ensureRange(1 - float64(dist)/float64(maxLen))
}

// EqualsSimilarity returns 1 when both values are equal after normalization
// and 0 otherwise.
func EqualsSimilarity(a, b string) float64 {
	if normalizeName(a) == normalizeName(b) {
		return 1
	}
	return 0
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFC.String(s)))
}
