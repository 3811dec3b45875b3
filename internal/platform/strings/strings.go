// Package strings holds the small string helpers shared across modules
package strings

import (
	std "strings"
	"unicode/utf8"
)

// MustString returns s, panicking with name when s is blank
func MustString(s string, name string) string {
	if std.TrimSpace(s) == "" {
		panic(name + " is required")
	}
	return s
}

// MustPrefix normalizes a mount path to a single leading slash and no trailing slash
// the bare root is rejected
func MustPrefix(s string) string {
	s = "/" + std.Trim(std.TrimSpace(s), "/ ")
	if s == "/" {
		panic("root path is required")
	}
	return s
}

// Clip cuts s to at most n runes and marks the cut with "..."
func Clip(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for j := range s {
		if i == n {
			return s[:j] + "..."
		}
		i++
	}
	return s
}

// Compact folds every whitespace run into a single space and trims the ends
func Compact(s string) string {
	return std.Join(std.Fields(s), " ")
}
