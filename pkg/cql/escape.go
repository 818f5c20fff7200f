package cql

import (
	"fmt"
	"strings"
)

// Escape neutralizes characters that would break a CQL string or character
// literal: backslash, both quote kinds, and control characters. Printable
// non-ASCII passes through untouched (CQL text is UTF-8).
func Escape(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\'':
			sb.WriteString(`\'`)
		case '\b':
			sb.WriteString(`\b`)
		case '\t':
			sb.WriteString(`\t`)
		case '\n':
			sb.WriteString(`\n`)
		case '\f':
			sb.WriteString(`\f`)
		case '\r':
			sb.WriteString(`\r`)
		default:
			if r < 0x20 {
				sb.WriteString(fmt.Sprintf(`\u%04x`, r))
			} else {
				sb.WriteRune(r)
			}
		}
	}
	return sb.String()
}

// Unescape reverses Escape. It exists for tests and tooling that need to
// verify a rendered literal reproduces the original value; the engine itself
// never parses CQL back.
func Unescape(s string) (string, error) {
	var sb strings.Builder
	sb.Grow(len(s))
	rs := []rune(s)
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		if r != '\\' {
			sb.WriteRune(r)
			continue
		}
		i++
		if i >= len(rs) {
			return "", fmt.Errorf("cql: dangling escape at end of %q", s)
		}
		switch rs[i] {
		case '\\':
			sb.WriteByte('\\')
		case '"':
			sb.WriteByte('"')
		case '\'':
			sb.WriteByte('\'')
		case 'b':
			sb.WriteByte('\b')
		case 't':
			sb.WriteByte('\t')
		case 'n':
			sb.WriteByte('\n')
		case 'f':
			sb.WriteByte('\f')
		case 'r':
			sb.WriteByte('\r')
		case 'u':
			if i+4 >= len(rs) {
				return "", fmt.Errorf("cql: truncated \\u escape in %q", s)
			}
			var code rune
			if _, err := fmt.Sscanf(string(rs[i+1:i+5]), "%04x", &code); err != nil {
				return "", fmt.Errorf("cql: bad \\u escape in %q: %w", s, err)
			}
			sb.WriteRune(code)
			i += 4
		default:
			return "", fmt.Errorf("cql: unknown escape \\%c in %q", rs[i], s)
		}
	}
	return sb.String(), nil
}
