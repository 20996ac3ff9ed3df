package util

import "strings"

// NormalizeText lowercases and trims a surface string for comparisons.
func NormalizeText(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// TokenSet splits a string on whitespace and returns the set of tokens.
func TokenSet(value string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(value) {
		set[tok] = struct{}{}
	}
	return set
}
