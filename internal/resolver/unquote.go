package resolver

import (
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// Unquote percent-decodes s without ever failing.
//
// A '%' that is not followed by two hex digits is kept literally. Runs of
// consecutive escapes are decoded together as UTF-8, with ill-formed bytes
// replaced by U+FFFD. Characters outside escapes are copied unchanged.
func Unquote(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}

	var (
		b   strings.Builder
		run []byte
	)
	b.Grow(len(s))

	flush := func() {
		if len(run) == 0 {
			return
		}
		b.WriteString(decodeUTF8(run))
		run = run[:0]
	}

	for i := 0; i < len(s); {
		if s[i] == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
			run = append(run, unhex(s[i+1])<<4|unhex(s[i+2]))
			i += 3
			continue
		}
		flush()
		b.WriteByte(s[i])
		i++
	}
	flush()

	return b.String()
}

func decodeUTF8(raw []byte) string {
	out, err := unicode.UTF8.NewDecoder().Bytes(raw)
	if err != nil {
		return strings.ToValidUTF8(string(raw), "\uFFFD")
	}
	return string(out)
}

func isHex(c byte) bool {
	switch {
	case '0' <= c && c <= '9':
		return true
	case 'a' <= c && c <= 'f':
		return true
	case 'A' <= c && c <= 'F':
		return true
	}
	return false
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
