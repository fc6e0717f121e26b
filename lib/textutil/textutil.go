package textutil

import (
	"regexp"
	"strings"
)

var nonAlnumRegex = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// NormalizeName lowercases a header and strips everything that is not a letter
// or digit, so "RC No.", "rc_no" and "RC  No" compare equal.
func NormalizeName(name string) string {
	name = strings.ToLower(name)
	return nonAlnumRegex.ReplaceAllString(name, "")
}

func MatchName(name string, matchers []string) bool {
	name = NormalizeName(name)
	for _, m := range matchers {
		if name == m {
			return true
		}
	}
	return false
}

// Truncate shortens s to at most max runes, marking the cut with "...".
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
