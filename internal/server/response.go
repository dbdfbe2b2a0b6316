package server

import (
	"bufio"
	"fmt"
	"io"
	"net/http"

	"github.com/f4ah6o/wwwserve-go/internal/dispatch"
)

// legacyMovedPhrase is the 301 reason phrase existing clients of this server
// have always received.
const legacyMovedPhrase = "Move Permanently"

func (s *Server) reasonPhrase(code int) string {
	if code == http.StatusMovedPermanently && !s.standardReasonPhrase {
		return legacyMovedPhrase
	}
	return http.StatusText(code)
}

// writeResponse serializes resp to w and returns the number of body bytes
// written. The header block is flushed before the body so that the body copy
// can go straight to the connection.
func (s *Server) writeResponse(w *bufio.Writer, resp dispatch.Response) (int64, error) {
	code := resp.Kind.StatusCode()
	fmt.Fprintf(w, "HTTP/1.1 %d %s\r\n", code, s.reasonPhrase(code))

	switch resp.Kind {
	case dispatch.KindOK:
		if resp.ContentType != "" {
			fmt.Fprintf(w, "Content-Type: %s\r\n", resp.ContentType)
		}
	case dispatch.KindRedirect:
		fmt.Fprintf(w, "Location: %s\r\n", resp.Location)
	}
	w.WriteString("\r\n")

	if err := w.Flush(); err != nil {
		return 0, err
	}
	if resp.Body == nil {
		return 0, nil
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, err
	}
	return n, w.Flush()
}
