// Package staticview serves files from a docroot directory.
//
// A Handler resolves either the request's URL path or, in subpath mode,
// the path segments left over by an upstream router against its docroot.
// Both addressing modes go through the same segment validation, so a
// request can never reach outside of the docroot. Directories are served
// through their index file, and responses carry Last-Modified and
// optional Cache-Control/Expires headers for conditional GETs.
package staticview

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gitlab.com/gitlab-org/gitlab-static/internal/errortracking"
	"gitlab.com/gitlab-org/gitlab-static/internal/logging"
	"gitlab.com/gitlab-org/gitlab-static/internal/mimetypes"
	"gitlab.com/gitlab-org/gitlab-static/internal/request"
	"gitlab.com/gitlab-org/gitlab-static/internal/resource"
	"gitlab.com/gitlab-org/gitlab-static/internal/vfs"
	"gitlab.com/gitlab-org/gitlab-static/internal/vfs/local"
)

const (
	// DefaultIndex is served for requests resolving to a directory
	DefaultIndex = "index.html"
	// DefaultCacheMaxAge is the default Cache-Control max-age in seconds
	DefaultCacheMaxAge = 3600
)

// Handler is the static resource resolver. It is safe for concurrent use;
// its configuration never changes after New returns.
type Handler struct {
	locator    resource.Locator
	namespaces resource.Namespaces
	fs         vfs.VFS
	mimes      mimetypes.Table

	index        string
	cacheMaxAge  int
	cacheEnabled bool
	useSubpath   bool

	now func() time.Time

	docrootOnce sync.Once
	docroot     string
	docrootErr  error
}

// Option configures a Handler
type Option func(*Handler)

// WithIndex sets the file served for directories
func WithIndex(index string) Option {
	return func(h *Handler) {
		h.index = index
	}
}

// WithCacheMaxAge enables Cache-Control and Expires headers with a max-age
// of seconds. A max-age of 0 still emits both headers.
func WithCacheMaxAge(seconds int) Option {
	return func(h *Handler) {
		h.cacheMaxAge = seconds
		h.cacheEnabled = true
	}
}

// WithoutCacheMaxAge disables the Cache-Control and Expires headers
func WithoutCacheMaxAge() Option {
	return func(h *Handler) {
		h.cacheMaxAge = 0
		h.cacheEnabled = false
	}
}

// WithSubpath makes the Handler resolve the path segments provided by the
// router (see request.WithSubpath) instead of the URL path
func WithSubpath() Option {
	return func(h *Handler) {
		h.useSubpath = true
	}
}

// withClock is used by tests to pin Expires
func withClock(now func() time.Time) Option {
	return func(h *Handler) {
		h.now = now
	}
}

// New returns a Handler serving the directory identified by locator, in
// the "<namespace>:<docroot>" form or an absolute path. The namespace is
// resolved through namespaces on first use, not here. A nil namespaces
// maps the default namespace to the working directory, a nil fs serves
// from the local disk and a nil mimes uses the process MIME table.
func New(locator string, namespaces resource.Namespaces, fs vfs.VFS, mimes mimetypes.Table, opts ...Option) (*Handler, error) {
	l, err := resource.ParseLocator(locator)
	if err != nil {
		return nil, err
	}

	if namespaces == nil {
		namespaces = resource.StaticNamespaces{"": "."}
	}

	if fs == nil {
		fs = vfs.Instrumented(local.New(0, 0))
	}

	if mimes == nil {
		mimes = mimetypes.New()
	}

	h := &Handler{
		locator:      l,
		namespaces:   namespaces,
		fs:           fs,
		mimes:        mimes,
		index:        DefaultIndex,
		cacheMaxAge:  DefaultCacheMaxAge,
		cacheEnabled: true,
		now:          time.Now,
	}

	for _, opt := range opts {
		opt(h)
	}

	if _, ok := securePath([]string{h.index}); !ok || strings.Contains(h.index, "%") {
		return nil, errInvalidIndex
	}

	return h, nil
}

// Namespace returns the namespace the docroot is relative to
func (h *Handler) Namespace() string {
	return h.locator.Namespace
}

// Docroot returns the docroot as given in the locator
func (h *Handler) Docroot() string {
	return h.locator.Docroot
}

// Index returns the file served for directories
func (h *Handler) Index() string {
	return h.index
}

// CacheMaxAge returns the max-age in seconds and whether cache headers are emitted
func (h *Handler) CacheMaxAge() (int, bool) {
	return h.cacheMaxAge, h.cacheEnabled
}

// UseSubpath reports whether the Handler resolves router provided segments
func (h *Handler) UseSubpath() bool {
	return h.useSubpath
}

// root resolves the docroot once and returns it as a vfs.Root
func (h *Handler) root(ctx context.Context) (vfs.Root, error) {
	h.docrootOnce.Do(func() {
		h.docroot, h.docrootErr = h.locator.Resolve(h.namespaces)
		if h.docrootErr == nil {
			h.docroot = filepath.Clean(h.docroot)
		}
	})

	if h.docrootErr != nil {
		return nil, h.docrootErr
	}

	return h.fs.Root(ctx, h.docroot)
}

// ServeHTTP resolves r and writes the response
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := h.Resolve(r.Context(), h.requestView(r))

	if err := resp.Send(w, r); err != nil {
		h.handleSendError(r, err)
	}
}

func (h *Handler) requestView(r *http.Request) RequestView {
	rv := RequestView{
		PathInfo:   r.URL.EscapedPath(),
		Scheme:     request.Scheme(r),
		Host:       r.Host,
		ScriptName: request.ScriptName(r),
		RawQuery:   r.URL.RawQuery,
	}

	if subpath, ok := request.Subpath(r); ok {
		rv.Subpath = subpath
	} else if h.useSubpath {
		rv.Subpath = SplitPath(rv.PathInfo)
	}

	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		if ims, err := http.ParseTime(r.Header.Get("If-Modified-Since")); err == nil {
			rv.IfModifiedSince = ims
		}
	}

	return rv
}

func (h *Handler) handleSendError(r *http.Request, err error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return
	}

	var oe *openError
	if errors.As(err, &oe) {
		if isNotFound(err) {
			logging.LogRequest(r).WithError(err).Debug("static file disappeared before it was served")
			return
		}

		logging.LogRequest(r).WithError(err).Error("could not open static file")
		errortracking.CaptureErrWithReqAndStackTrace(err, r)
		return
	}

	if errors.Is(err, &vfs.ReadError{}) {
		logging.LogRequest(r).WithError(err).Error("error reading content")
		errortracking.CaptureErrWithReqAndStackTrace(err, r)
		return
	}

	// anything else is a failed write to a client that went away
	logging.LogRequest(r).WithError(err).Debug("error writing response")
}
