// Package resolver turns untrusted request targets into paths relative to a
// served directory root.
package resolver

import (
	"errors"
	"path/filepath"
	"strings"
)

// ErrTraversal is returned when a target contains more ".." segments than
// there are preceding segments to pop.
var ErrTraversal = errors.New("resolver: path escapes root")

// Resolve normalizes a raw request target into a slash-separated relative path.
//
// Everything from the first '?' is discarded, the remainder is percent-decoded
// with Unquote, and the result is split into segments. Empty and "." segments
// are skipped and ".." pops the previously accepted segment. A ".." with
// nothing left to pop fails the whole resolution with ErrTraversal.
//
// The returned path never contains ".", ".." or empty segments. The empty
// string names the root itself.
//
// Examples:
//
//	Resolve("/a/b/../c")   -> "a/c"
//	Resolve("/a%20b?x=1")  -> "a b"
//	Resolve("/a/../../x")  -> ErrTraversal
func Resolve(rawTarget string) (string, error) {
	target, _, _ := strings.Cut(rawTarget, "?")

	var stack []string
	for _, seg := range strings.FieldsFunc(Unquote(target), isSeparator) {
		switch seg {
		case ".":
		case "..":
			if len(stack) == 0 {
				return "", ErrTraversal
			}
			stack = stack[:len(stack)-1]
		default:
			stack = append(stack, seg)
		}
	}
	return strings.Join(stack, "/"), nil
}

// isSeparator also splits on the platform separator so that a decoded
// backslash cannot smuggle a ".." past the fold on Windows.
func isSeparator(r rune) bool {
	return r == '/' || r == filepath.Separator
}
