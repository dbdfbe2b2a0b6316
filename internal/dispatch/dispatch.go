// Package dispatch maps a request method and target onto a Response for a
// read-only directory tree.
package dispatch

import (
	"io/fs"
	"path"
	"strings"

	"github.com/f4ah6o/wwwserve-go/internal/mimetype"
	"github.com/f4ah6o/wwwserve-go/internal/resolver"
	"github.com/sirupsen/logrus"
)

// MethodGet is the only method served.
const MethodGet = "GET"

// DefaultIndexFile is served for directory targets ending in '/'.
const DefaultIndexFile = "index.html"

// Dispatcher resolves requests against a fixed file tree. It holds no
// mutable state and may be shared by concurrent connections.
type Dispatcher struct {
	fsys  fs.FS
	index string
	log   logrus.FieldLogger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithIndexFile overrides the file served for directory targets.
func WithIndexFile(name string) Option {
	return func(d *Dispatcher) {
		if name != "" {
			d.index = name
		}
	}
}

// WithLogger sets the logger used for filesystem faults.
func WithLogger(l logrus.FieldLogger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.log = l
		}
	}
}

// New creates a Dispatcher serving fsys, typically os.DirFS(root).
func New(fsys fs.FS, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		fsys:  fsys,
		index: DefaultIndexFile,
		log:   logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch selects the response for one request.
//
// Only GET is accepted. The target is resolved with resolver.Resolve, and a
// traversal attempt is reported as KindNotFound so callers cannot tell it
// apart from a missing file. A directory whose target lacks a trailing slash
// is redirected to the same target with the slash appended. A directory whose
// target has one is served through its index file.
//
// When the returned Response has a Body the caller must Close it.
func (d *Dispatcher) Dispatch(method, target string) Response {
	if method != MethodGet {
		return Response{Kind: KindMethodNotAllowed}
	}

	rel, err := resolver.Resolve(target)
	if err != nil {
		d.log.WithField("target", target).Debug("rejected target outside root")
		return Response{Kind: KindNotFound}
	}

	name := rel
	if name == "" {
		name = "."
	}

	info, err := fs.Stat(d.fsys, name)
	if err != nil {
		return Response{Kind: KindNotFound}
	}

	if info.IsDir() {
		p, _, _ := strings.Cut(target, "?")
		if !strings.HasSuffix(p, "/") {
			return Response{Kind: KindRedirect, Location: p + "/"}
		}
		name = path.Join(name, d.index)
		if info, err = fs.Stat(d.fsys, name); err != nil {
			return Response{Kind: KindNotFound}
		}
	}

	if !info.Mode().IsRegular() {
		return Response{Kind: KindNotFound}
	}
	return d.open(name)
}

func (d *Dispatcher) open(name string) Response {
	f, err := d.fsys.Open(name)
	if err != nil {
		d.log.WithError(err).WithField("path", name).Warn("failed to open file")
		return Response{Kind: KindNotFound}
	}
	return Response{
		Kind:        KindOK,
		ContentType: mimetype.Guess(name),
		Path:        name,
		Body:        f,
	}
}
