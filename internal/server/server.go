// Package server accepts TCP connections and answers one request per
// connection using a Dispatcher.
package server

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net"
	"sync"
	"time"

	"github.com/f4ah6o/wwwserve-go/internal/dispatch"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/netutil"
)

// DefaultReadBufferSize is the largest request head read from a connection.
const DefaultReadBufferSize = 1024

// Dispatcher selects the response for a request line.
type Dispatcher interface {
	Dispatch(method, target string) dispatch.Response
}

// Options configures a Server.
type Options struct {
	// ReadBufferSize is the size of the single read performed per
	// connection. Zero means DefaultReadBufferSize.
	ReadBufferSize int
	// ReadTimeout bounds the wait for the request bytes. Zero disables it.
	ReadTimeout time.Duration
	// StandardReasonPhrase selects "Moved Permanently" over the legacy
	// "Move Permanently" for 301 responses.
	StandardReasonPhrase bool
	Logger               logrus.FieldLogger
}

// Server answers exactly one request per accepted connection and then
// closes it.
type Server struct {
	dispatcher           Dispatcher
	bufSize              int
	readTimeout          time.Duration
	standardReasonPhrase bool
	log                  logrus.FieldLogger
}

// New creates a Server that routes requests to d.
func New(d Dispatcher, opts Options) *Server {
	s := &Server{
		dispatcher:           d,
		bufSize:              opts.ReadBufferSize,
		readTimeout:          opts.ReadTimeout,
		standardReasonPhrase: opts.StandardReasonPhrase,
		log:                  opts.Logger,
	}
	if s.bufSize <= 0 {
		s.bufSize = DefaultReadBufferSize
	}
	if s.log == nil {
		s.log = logrus.StandardLogger()
	}
	return s
}

// Listen opens a TCP listener on addr with address reuse enabled. When
// maxConns is positive, at most maxConns connections are held at once and
// further clients wait in the kernel backlog.
func Listen(ctx context.Context, addr string, maxConns int) (net.Listener, error) {
	lc := net.ListenConfig{Control: reuseAddr}
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to listen on %s", addr)
	}
	if maxConns > 0 {
		ln = netutil.LimitListener(ln, maxConns)
	}
	return ln, nil
}

// Serve accepts connections on ln until ctx is cancelled, then closes ln and
// waits for connections in flight. Other accept errors are logged and
// retried with backoff.
func (s *Server) Serve(ctx context.Context, ln net.Listener) {
	var wg sync.WaitGroup
	defer wg.Wait()

	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()

	var backoff time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return
			}
			backoff = nextBackoff(backoff)
			s.log.WithError(err).Warnf("accept failed, retrying in %s", backoff)
			time.Sleep(backoff)
			continue
		}
		backoff = 0

		wg.Add(1)
		go func() {
			defer wg.Done()
			s.serveConn(conn)
		}()
	}
}

func nextBackoff(d time.Duration) time.Duration {
	if d == 0 {
		return 5 * time.Millisecond
	}
	if d *= 2; d > time.Second {
		d = time.Second
	}
	return d
}

// serveConn handles one connection. Nothing that goes wrong here, including
// a panic, escapes to the accept loop.
func (s *Server) serveConn(conn net.Conn) {
	log := s.log.WithField("remote", conn.RemoteAddr().String())
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("recovered from panic while serving connection")
		}
	}()
	defer conn.Close()

	if s.readTimeout > 0 {
		if err := conn.SetReadDeadline(time.Now().Add(s.readTimeout)); err != nil {
			log.WithError(err).Debug("failed to set read deadline")
		}
	}

	buf := make([]byte, s.bufSize)
	n, err := conn.Read(buf)
	if n == 0 {
		if err != nil && !errors.Is(err, io.EOF) {
			log.WithError(err).Debug("failed to read request")
		}
		return
	}
	log.Debugf("got a request of: %q", bytes.TrimSpace(buf[:n]))

	var resp dispatch.Response
	req, err := ParseRequestLine(buf[:n])
	if err != nil {
		log.WithError(err).Info("rejected request")
		resp = dispatch.Response{Kind: dispatch.KindBadRequest}
	} else {
		log = log.WithFields(logrus.Fields{"method": req.Method, "target": req.Target})
		resp = s.dispatcher.Dispatch(req.Method, req.Target)
	}
	defer resp.Close()

	written, err := s.writeResponse(bufio.NewWriter(conn), resp)
	log = log.WithFields(logrus.Fields{
		"status": resp.Kind.StatusCode(),
		"bytes":  written,
	})
	if resp.Path != "" {
		log = log.WithField("path", resp.Path)
	}
	if err != nil {
		log.WithError(err).Warn("failed to write response")
		return
	}
	log.Info("served request")
}
