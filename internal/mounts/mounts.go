// Package mounts routes requests to the handler mounted at the longest
// matching URL prefix.
//
// The prefix consumed by routing is saved as the request's script name and
// the remainder of the still-escaped path is split into the request's
// subpath, see the request package.
package mounts

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/gorilla/mux"

	"gitlab.com/gitlab-org/gitlab-static/internal/httperrors"
	"gitlab.com/gitlab-org/gitlab-static/internal/request"
	"gitlab.com/gitlab-org/gitlab-static/internal/staticview"
	"gitlab.com/gitlab-org/gitlab-static/metrics"
)

const subpathVar = "subpath"

var (
	// ErrInvalidPrefix is returned for prefixes that are not absolute,
	// unescaped URL paths
	ErrInvalidPrefix = errors.New("mount prefix must be an absolute URL path without escapes")
	// ErrDuplicatePrefix is returned when two mounts share a prefix
	ErrDuplicatePrefix = errors.New("mount prefix is already in use")
)

// Mount serves Handler below Prefix. A Prefix of "/" mounts Handler at
// the root of the site.
type Mount struct {
	Prefix  string
	Handler http.Handler
}

// NormalizePrefix validates prefix and drops its trailing slash. The root
// prefix "/" normalizes to "".
func NormalizePrefix(prefix string) (string, error) {
	if !strings.HasPrefix(prefix, "/") {
		return "", fmt.Errorf("%q: %w", prefix, ErrInvalidPrefix)
	}

	prefix = strings.TrimRight(prefix, "/")

	// escaped and unescaped forms must match so that stripping the prefix
	// works on both URL.Path and URL.RawPath
	if (&url.URL{Path: prefix}).EscapedPath() != prefix || strings.Contains(prefix, "//") {
		return "", fmt.Errorf("%q: %w", prefix, ErrInvalidPrefix)
	}

	for _, segment := range strings.Split(prefix, "/")[1:] {
		if segment == "." || segment == ".." {
			return "", fmt.Errorf("%q: %w", prefix, ErrInvalidPrefix)
		}
	}

	return prefix, nil
}

// NewRouter returns a router dispatching to mounts. Requests outside of
// every mount are answered with a 404.
func NewRouter(mounts []Mount) (*mux.Router, error) {
	normalized := make([]Mount, 0, len(mounts))
	seen := make(map[string]bool, len(mounts))

	for _, m := range mounts {
		prefix, err := NormalizePrefix(m.Prefix)
		if err != nil {
			return nil, err
		}

		if seen[prefix] {
			return nil, fmt.Errorf("%q: %w", m.Prefix, ErrDuplicatePrefix)
		}
		seen[prefix] = true

		normalized = append(normalized, Mount{Prefix: prefix, Handler: m.Handler})
	}

	// routes match in registration order, the most specific prefix wins
	sort.SliceStable(normalized, func(i, j int) bool {
		return len(normalized[i].Prefix) > len(normalized[j].Prefix)
	})

	// paths are matched escaped and never cleaned: the mounted handlers
	// decide what to do with dot segments and encoded separators
	router := mux.NewRouter().UseEncodedPath().SkipClean(true)
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.Serve404(w)
	})

	for _, m := range normalized {
		template := m.Prefix + "{" + subpathVar + ":(?:/.*)?}"
		if m.Prefix == "" {
			template = "/{" + subpathVar + ":.*}"
		}

		router.Path(template).Handler(mountHandler(m))
	}

	metrics.MountsConfigured.Set(float64(len(normalized)))

	return router, nil
}

func mountHandler(m Mount) http.Handler {
	stripped := m.Handler
	if m.Prefix != "" {
		stripped = http.StripPrefix(m.Prefix, m.Handler)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subpath := mux.Vars(r)[subpathVar]
		if m.Prefix == "" {
			subpath = "/" + subpath
		}

		r = request.WithScriptName(r, m.Prefix)
		r = request.WithSubpath(r, staticview.SplitPath(subpath))

		stripped.ServeHTTP(w, r)
	})
}
