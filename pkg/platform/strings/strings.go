// Package strings provides string normalization helpers shared by request parsing.
package strings

import (
	"strings"
	"unicode"
)

// TrimNonBlank trims each element and drops the ones left empty. Order and
// duplicates are preserved so callers can still detect repeated values.
//
// Example:
//
//	TrimNonBlank([]string{"  Good ", "", "Bad", " "})
//	// Returns: []string{"Good", "Bad"}
func TrimNonBlank(values []string) []string {
	if values == nil {
		return nil
	}
	result := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// Dedupe removes repeated values, keeping first occurrences in order.
func Dedupe[T comparable](values []T) []T {
	if len(values) == 0 {
		return values
	}
	seen := make(map[T]struct{}, len(values))
	result := make([]T, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	return result
}

// FirstDuplicate returns the first value that repeats an earlier one.
func FirstDuplicate(values []string) (string, bool) {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			return v, true
		}
		seen[v] = struct{}{}
	}
	return "", false
}

// StripSpace removes every whitespace rune, including interior ones.
func StripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
