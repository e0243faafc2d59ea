package staticview

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"gitlab.com/gitlab-org/gitlab-static/internal/errortracking"
	"gitlab.com/gitlab-org/gitlab-static/internal/mimetypes"
	"gitlab.com/gitlab-org/gitlab-static/internal/vfs"
)

// RequestView is what the resolver needs to know about a request
type RequestView struct {
	// PathInfo is the escaped URL path below ScriptName
	PathInfo string
	// Subpath holds the still-escaped segments provided by the router,
	// only consulted in subpath mode
	Subpath []string
	// IfModifiedSince is zero when the client has no cached copy
	IfModifiedSince time.Time

	Scheme     string
	Host       string
	ScriptName string
	RawQuery   string
}

// URL returns the absolute URL of the request
func (rv RequestView) URL() string {
	u := rv.Scheme + "://" + rv.Host + rv.ScriptName + rv.PathInfo
	if rv.RawQuery != "" {
		u += "?" + rv.RawQuery
	}

	return u
}

// Resolve maps rv to a Response. It never fails: invalid input and
// missing files resolve to a 404. The caller owns the returned Response
// and must Send or Close it.
func (h *Handler) Resolve(ctx context.Context, rv RequestView) *Response {
	var segments []string
	if h.useSubpath {
		segments = rv.Subpath
	} else {
		segments = SplitPath(rv.PathInfo)
	}

	// relative links in the index only work below a trailing slash
	if len(segments) == 0 && rv.PathInfo == "" {
		redirect := rv
		redirect.PathInfo = "/"
		return redirectResponse(redirect.URL())
	}

	name, ok := securePath(segments)
	if !ok {
		return notFoundResponse()
	}

	root, err := h.root(ctx)
	if err != nil {
		log.WithContext(ctx).
			WithField("locator", h.locator.String()).
			WithError(err).
			Error("could not resolve docroot")
		return notFoundResponse()
	}

	name, fi, err := h.match(ctx, root, name)
	if err != nil {
		return h.errorResponse(ctx, name, err)
	}

	return h.fileResponse(ctx, root, name, fi, rv.IfModifiedSince)
}

// match stats name, descending into the index file for directories
func (h *Handler) match(ctx context.Context, root vfs.Root, name string) (string, os.FileInfo, error) {
	fi, err := root.Stat(ctx, name)
	if err != nil {
		return name, nil, err
	}

	if fi.IsDir() {
		name = filepath.Join(name, h.index)

		fi, err = root.Stat(ctx, name)
		if err != nil {
			return name, nil, err
		}
	}

	// a directory named like the index, a device or something else that
	// may be a security risk
	if !fi.Mode().IsRegular() {
		return name, nil, errNotRegular
	}

	return name, fi, nil
}

func (h *Handler) errorResponse(ctx context.Context, name string, err error) *Response {
	if isNotFound(err) {
		return notFoundResponse()
	}

	log.WithContext(ctx).
		WithField("locator", h.locator.String()).
		WithField("name", name).
		WithError(err).
		Error("could not stat static file")
	errortracking.CaptureErrWithStackTrace(err, errortracking.WithField("locator", h.locator.String()))

	return internalErrorResponse()
}

func (h *Handler) fileResponse(ctx context.Context, root vfs.Root, name string, fi os.FileInfo, ifModifiedSince time.Time) *Response {
	header := []HeaderField{
		{Name: "Content-Length", Value: strconv.FormatInt(fi.Size(), 10)},
		{Name: "Content-Type", Value: mimetypes.ContentType(h.mimes, name)},
		{Name: "Last-Modified", Value: fi.ModTime().UTC().Format(http.TimeFormat)},
	}

	if h.cacheEnabled {
		expires := h.now().Add(time.Duration(h.cacheMaxAge) * time.Second)

		header = append(header,
			HeaderField{Name: "Cache-Control", Value: "max-age=" + strconv.Itoa(h.cacheMaxAge)},
			HeaderField{Name: "Expires", Value: expires.UTC().Format(http.TimeFormat)},
		)
	}

	return &Response{
		Status:          http.StatusOK,
		Header:          header,
		Body:            lazyOpen(ctx, root, name),
		modTime:         fi.ModTime(),
		ifModifiedSince: ifModifiedSince,
		size:            fi.Size(),
	}
}
