package citekey

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"bibfix/src/internal/bibtex"
	"bibfix/src/internal/dates"
	"bibfix/src/internal/names"
)

// Derive builds the {surname}{year}{titleword} key for one entry. Entries
// missing author, year, or title are reported with their original key so the
// user can find them in the export.
func Derive(e bibtex.Entry) (string, error) {
	author, _ := e.Get("author")
	year, _ := e.Get("year")
	title, _ := e.Get("title")
	if strings.TrimSpace(author) == "" || strings.TrimSpace(year) == "" || strings.TrimSpace(title) == "" {
		return "", fmt.Errorf("missing information (year, author, or title) for entry %s", e.Key)
	}
	key := fold(names.Surname(names.FirstAuthor(author))) +
		fold(dates.YearString(year)) +
		fold(firstTitleWord(title))
	if key == "" {
		return "", fmt.Errorf("cannot derive a citation key for entry %s", e.Key)
	}
	return key, nil
}

// firstTitleWord picks the first word of the title longer than two runes
// that is not "the", falling back to the first word. Protective braces do
// not count as word text.
func firstTitleWord(title string) string {
	title = strings.NewReplacer("{", "", "}", "").Replace(title)
	words := strings.FieldsFunc(strings.ToLower(title), isTitleSep)
	if len(words) == 0 {
		return ""
	}
	for _, w := range words {
		if utf8.RuneCountInString(w) > 2 && w != "the" {
			return w
		}
	}
	return words[0]
}

func isTitleSep(r rune) bool {
	switch r {
	case ':', '"', '\'', '`', ',':
		return true
	}
	return unicode.IsSpace(r)
}

// fold lowercases s, strips diacritics ("Müller" keys as "muller"), and keeps
// only ASCII letters and digits. The transform chain carries per-call scratch
// buffers, so a fresh one is built on every call.
func fold(s string) string {
	folder := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if out, _, err := transform.String(folder, s); err == nil {
		s = out
	}
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if ('a' <= r && r <= 'z') || ('0' <= r && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Assigner resolves base-key collisions in input order: the sole holder of a
// base keeps it bare, entries sharing a base get numeric suffixes (base1,
// base2, ...), and a suffixed candidate that is itself taken keeps counting
// upward. Final keys are always unique.
type Assigner struct {
	bases []string
	count map[string]int
}

func NewAssigner() *Assigner {
	return &Assigner{count: make(map[string]int)}
}

// Add records the base key of the next entry, in input order.
func (a *Assigner) Add(base string) {
	a.bases = append(a.bases, base)
	a.count[base]++
}

// Assign returns the final key for each added base, parallel to Add order.
func (a *Assigner) Assign() []string {
	used := make(map[string]bool, len(a.bases))
	for base, n := range a.count {
		if n == 1 {
			used[base] = true
		}
	}
	next := make(map[string]int)
	out := make([]string, 0, len(a.bases))
	for _, base := range a.bases {
		if a.count[base] == 1 {
			out = append(out, base)
			continue
		}
		k := next[base]
		var key string
		for {
			k++
			key = fmt.Sprintf("%s%d", base, k)
			if !used[key] {
				break
			}
		}
		next[base] = k
		used[key] = true
		out = append(out, key)
	}
	return out
}
