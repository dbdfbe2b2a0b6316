package dispatch

import (
	"io"
	"net/http"
)

// Kind tags the variant held by a Response.
type Kind int

const (
	// KindNotFound covers missing resources and rejected traversal attempts alike.
	KindNotFound Kind = iota
	KindOK
	KindRedirect
	KindMethodNotAllowed
	// KindBadRequest is produced by the connection layer for request lines it
	// cannot split; Dispatch itself never returns it.
	KindBadRequest
)

// StatusCode returns the HTTP status code sent for k.
func (k Kind) StatusCode() int {
	switch k {
	case KindOK:
		return http.StatusOK
	case KindRedirect:
		return http.StatusMovedPermanently
	case KindMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case KindBadRequest:
		return http.StatusBadRequest
	default:
		return http.StatusNotFound
	}
}

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindRedirect:
		return "redirect"
	case KindMethodNotAllowed:
		return "method-not-allowed"
	case KindBadRequest:
		return "bad-request"
	default:
		return "not-found"
	}
}

// Response describes the single reply to one request. It is produced by
// Dispatch and consumed immediately by the connection layer.
type Response struct {
	Kind Kind
	// ContentType is the guessed media type of Body. Empty means the header
	// is omitted.
	ContentType string
	// Location is the redirect target for KindRedirect.
	Location string
	// Path is the slash-separated file name served for KindOK.
	Path string
	// Body streams the file contents for KindOK and is nil otherwise.
	Body io.ReadCloser
}

// Close releases the body, if any. It is safe to call on every variant.
func (r Response) Close() error {
	if r.Body == nil {
		return nil
	}
	return r.Body.Close()
}
