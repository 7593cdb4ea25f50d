package stringsx

import "testing"

func TestFirstNonEmpty(t *testing.T) {
	cases := []struct {
		vals []string
		want string
	}{
		{[]string{"a", "b"}, "a"},
		{[]string{"", "b"}, "b"},
		{[]string{"  ", "\t", "c"}, "c"},
		{[]string{" padded ", "b"}, "padded"},
		{[]string{"", ""}, ""},
		{nil, ""},
	}
	for _, tc := range cases {
		if got := FirstNonEmpty(tc.vals...); got != tc.want {
			t.Fatalf("FirstNonEmpty(%q) = %q, want %q", tc.vals, got, tc.want)
		}
	}
}

func TestHasSuffixFold(t *testing.T) {
	cases := []struct {
		s, suffix string
		want      bool
	}{
		{"library.txt", ".txt", true},
		{"library.TXT", ".txt", true},
		{"library.Txt", ".txt", true},
		{"library.bib", ".txt", false},
		{"txt", ".txt", false},
		{"", "", true},
		{"library", "", true},
	}
	for _, tc := range cases {
		if got := HasSuffixFold(tc.s, tc.suffix); got != tc.want {
			t.Fatalf("HasSuffixFold(%q, %q) = %v, want %v", tc.s, tc.suffix, got, tc.want)
		}
	}
}
