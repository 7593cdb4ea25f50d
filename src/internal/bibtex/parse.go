package bibtex

import (
	"fmt"
	"strings"

	"bibfix/src/internal/sanitize"
)

// ParseError reports a malformed entry and the 1-based line where parsing gave up.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d: %s", e.Line, e.Msg)
}

// Parse tokenizes BibTeX source into entries, preserving entry and field order.
// Text outside entries is skipped (EndNote chatter, '%' comments, @comment,
// @preamble and @string blocks); a malformed entry yields a *ParseError.
func Parse(src string) ([]Entry, error) {
	s := src
	i, n := 0, len(s)
	lineAt := func(pos int) int { return 1 + strings.Count(s[:pos], "\n") }
	fail := func(pos int, format string, args ...any) *ParseError {
		return &ParseError{Line: lineAt(pos), Msg: fmt.Sprintf(format, args...)}
	}
	skipWS := func() {
		for i < n {
			if s[i] == '%' {
				for i < n && s[i] != '\n' {
					i++
				}
				continue
			}
			if strings.IndexByte(" \t\r\n", s[i]) >= 0 {
				i++
			} else {
				break
			}
		}
	}
	readIdent := func() string {
		start := i
		for i < n && (isAlpha(s[i]) || s[i] == '_') {
			i++
		}
		return s[start:i]
	}
	// consume up to and including the closer matching an already-consumed opener
	skipBalanced := func(opener, closer byte) bool {
		depth := 1
		for i < n {
			switch s[i] {
			case '\\':
				i++
			case opener:
				depth++
			case closer:
				depth--
				if depth == 0 {
					i++
					return true
				}
			}
			i++
		}
		return false
	}

	var entries []Entry
	for {
		skipWS()
		if i >= n {
			break
		}
		if s[i] != '@' {
			i++
			continue
		}
		head := i
		i++
		skipWS()
		typ := strings.ToLower(readIdent())
		if typ == "" {
			return nil, fail(head, "missing entry type after '@'")
		}
		skipWS()
		if i >= n || (s[i] != '{' && s[i] != '(') {
			return nil, fail(head, "expected '{' after @%s", typ)
		}
		opener := s[i]
		closer := byte('}')
		if opener == '(' {
			closer = ')'
		}
		i++
		if typ == "comment" || typ == "preamble" || typ == "string" {
			if !skipBalanced(opener, closer) {
				return nil, fail(head, "unterminated @%s block", typ)
			}
			continue
		}

		skipWS()
		kstart := i
		for i < n && s[i] != ',' && s[i] != closer && strings.IndexByte(" \t\r\n", s[i]) < 0 {
			i++
		}
		key := s[kstart:i]
		skipWS()
		if i >= n {
			return nil, fail(head, "unterminated @%s entry", typ)
		}
		if key == "" {
			return nil, fail(head, "missing citation key in @%s entry", typ)
		}
		if s[i] == ',' {
			i++
		} else if s[i] != closer {
			return nil, fail(i, "expected ',' after citation key %q", key)
		}

		e := Entry{Type: typ, Key: key}
		for {
			skipWS()
			if i >= n {
				return nil, fail(head, "unterminated @%s entry %q", typ, key)
			}
			if s[i] == closer {
				i++
				break
			}
			fstart := i
			for i < n && (isAlpha(s[i]) || isDigit(s[i]) || s[i] == '_' || s[i] == '-') {
				i++
			}
			name := strings.ToLower(s[fstart:i])
			if name == "" {
				return nil, fail(fstart, "expected field name in entry %q", key)
			}
			skipWS()
			if i >= n || s[i] != '=' {
				return nil, fail(fstart, "expected '=' after field %q in entry %q", name, key)
			}
			i++
			skipWS()

			val := ""
			switch {
			case i < n && s[i] == '{':
				vhead := i
				i++
				depth := 1
				vstart := i
				for i < n && depth > 0 {
					switch s[i] {
					case '\\':
						i++
					case '{':
						depth++
					case '}':
						depth--
					}
					i++
				}
				if depth > 0 {
					return nil, fail(vhead, "unterminated value for field %q in entry %q", name, key)
				}
				val = s[vstart : i-1]
			case i < n && s[i] == '"':
				// Braces nest inside a quoted value and a quote inside a brace
				// group is literal; the value must brace-balance or it cannot be
				// rendered back inside braces.
				vhead := i
				i++
				depth := 0
				vstart := i
				for i < n {
					if s[i] == '\\' {
						i += 2
						continue
					}
					if s[i] == '"' && depth == 0 {
						break
					}
					if s[i] == '{' {
						depth++
					} else if s[i] == '}' {
						if depth == 0 {
							return nil, fail(i, "unbalanced '}' in value for field %q in entry %q", name, key)
						}
						depth--
					}
					i++
				}
				if i >= n {
					return nil, fail(vhead, "unterminated value for field %q in entry %q", name, key)
				}
				val = s[vstart:i]
				i++
			default:
				vstart := i
				for i < n && s[i] != ',' && s[i] != closer && s[i] != '{' && s[i] != '}' {
					i++
				}
				val = s[vstart:i]
			}
			e.Fields = append(e.Fields, Field{Name: name, Value: sanitize.CollapseSpace(val)})

			skipWS()
			if i >= n {
				return nil, fail(head, "unterminated @%s entry %q", typ, key)
			}
			if s[i] == ',' {
				i++
				continue
			}
			if s[i] != closer {
				return nil, fail(i, "expected ',' or '%c' after field %q in entry %q", closer, name, key)
			}
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func isAlpha(b byte) bool { return ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z') }

func isDigit(b byte) bool { return '0' <= b && b <= '9' }
