package core

import "strings"

// CleanString trims all leading and trailing whitespace in `s` and optionally uppers it.
// Upper-casing is the one normalization policy applied to all stored text fields
// (names, emails, colleges, courses...); it also makes email uniqueness checks
// case-insensitive.
func CleanString(s string, upper ...bool) string {
	s = strings.TrimSpace(s)
	if len(upper) > 0 && upper[0] {
		return strings.ToUpper(s)
	}
	return s
}
