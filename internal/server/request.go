package server

import (
	"bytes"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/charmap"
)

// ErrMalformedRequestLine is returned for request lines with fewer than
// three whitespace-separated tokens.
var ErrMalformedRequestLine = errors.New("malformed request line")

// RequestLine is the first line of an HTTP request.
type RequestLine struct {
	Method  string
	Target  string
	Version string
}

// ParseRequestLine extracts the request line from the bytes of a single read.
//
// The bytes are trimmed and decoded as ISO-8859-1 so that every octet maps
// to exactly one character. Only the first line is inspected and anything
// after it, headers included, is ignored.
func ParseRequestLine(raw []byte) (RequestLine, error) {
	text, err := charmap.ISO8859_1.NewDecoder().Bytes(bytes.TrimSpace(raw))
	if err != nil {
		return RequestLine{}, errors.Wrap(ErrMalformedRequestLine, err.Error())
	}

	line, _, _ := strings.Cut(string(text), "\n")
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return RequestLine{}, errors.Wrapf(ErrMalformedRequestLine, "%d tokens in %q", len(fields), line)
	}

	return RequestLine{
		Method:  fields[0],
		Target:  fields[1],
		Version: fields[2],
	}, nil
}
