package server

import (
	"errors"
	"testing"
)

func TestParseRequestLine(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want RequestLine
	}{
		{
			name: "Request line only",
			raw:  "GET / HTTP/1.1\r\n",
			want: RequestLine{Method: "GET", Target: "/", Version: "HTTP/1.1"},
		},
		{
			name: "Headers ignored",
			raw:  "GET /index.html HTTP/1.1\r\nHost: 127.0.0.1:8080\r\nUser-Agent: curl/8.0\r\n\r\n",
			want: RequestLine{Method: "GET", Target: "/index.html", Version: "HTTP/1.1"},
		},
		{
			name: "Surrounding whitespace",
			raw:  "\r\n  POST   /form   HTTP/1.0  \r\n",
			want: RequestLine{Method: "POST", Target: "/form", Version: "HTTP/1.0"},
		},
		{
			name: "Bare LF",
			raw:  "GET /a?b=c HTTP/1.1\nHost: x\n\n",
			want: RequestLine{Method: "GET", Target: "/a?b=c", Version: "HTTP/1.1"},
		},
		{
			name: "Extra tokens ignored",
			raw:  "GET / HTTP/1.1 trailing\r\n",
			want: RequestLine{Method: "GET", Target: "/", Version: "HTTP/1.1"},
		},
		{
			name: "High octets decoded as Latin-1",
			raw:  "GET /caf\xe9 HTTP/1.1\r\n",
			want: RequestLine{Method: "GET", Target: "/café", Version: "HTTP/1.1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRequestLine([]byte(tt.raw))
			if err != nil {
				t.Fatalf("ParseRequestLine(%q) returned error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("ParseRequestLine(%q) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseRequestLineMalformed(t *testing.T) {
	raws := []string{
		"",
		"\r\n",
		"GET\r\n",
		"GET /\r\n",
		"GET /\r\nHost: example.com\r\n\r\n",
	}

	for _, raw := range raws {
		t.Run(raw, func(t *testing.T) {
			_, err := ParseRequestLine([]byte(raw))
			if !errors.Is(err, ErrMalformedRequestLine) {
				t.Errorf("ParseRequestLine(%q) error = %v, want ErrMalformedRequestLine", raw, err)
			}
		})
	}
}
