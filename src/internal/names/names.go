package names

import "strings"

// FirstAuthor returns the first author of a BibTeX author field, where
// multiple authors are joined with " and ".
func FirstAuthor(authors string) string {
	authors = strings.TrimSpace(authors)
	if i := strings.Index(authors, " and "); i >= 0 {
		return strings.TrimSpace(authors[:i])
	}
	return authors
}

// Surname extracts the family name from a single author name. "Family,
// Given" yields the part before the comma; otherwise the last word wins.
// A name braced to protect it ({Acme Corp}) counts as one word.
func Surname(name string) string {
	name = strings.TrimSpace(name)
	if strings.HasPrefix(name, "{") && strings.HasSuffix(name, "}") {
		return strings.TrimSpace(strings.Trim(name, "{}"))
	}
	if name == "" {
		return ""
	}
	if i := strings.Index(name, ","); i >= 0 {
		return strings.TrimSpace(name[:i])
	}
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}
