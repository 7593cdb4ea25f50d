package sanitize

import "strings"

// CollapseSpace folds every whitespace run (including the newlines of a
// line-wrapped field value) into a single space and trims the ends.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// StripBOM removes a leading UTF-8 byte order mark and any whitespace before
// the first real character. EndNote exports on Windows usually start with one.
func StripBOM(s string) string {
	s = strings.TrimPrefix(s, "\uFEFF")
	return strings.TrimLeft(s, " \t\r\n")
}
