// Package fuzzy provides edit-distance helpers for approximate word matching.
package fuzzy

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// MaxFallbackDistance is the edit distance tolerated by fallback matching.
const MaxFallbackDistance = 2

// Distance returns the Levenshtein distance between a and b, counted in runes.
func Distance(a, b string) int {
	return levenshtein.ComputeDistance(a, b)
}

// Words lowercases text and splits it on runs of whitespace.
func Words(text string) []string {
	return strings.Fields(strings.ToLower(text))
}

// AnyWithin reports whether some token is within maxDist edits of some word.
func AnyWithin(tokens, words []string, maxDist int) bool {
	for _, t := range tokens {
		for _, w := range words {
			if within(t, w, maxDist) {
				return true
			}
		}
	}
	return false
}

func within(a, b string, maxDist int) bool {
	d := utf8.RuneCountInString(a) - utf8.RuneCountInString(b)
	if d > maxDist || -d > maxDist {
		return false
	}
	return Distance(a, b) <= maxDist
}
