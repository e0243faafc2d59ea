package request

import (
	"context"
	"net/http"
)

type ctxKey string

const (
	ctxScriptNameKey ctxKey = "script_name"
	ctxSubpathKey    ctxKey = "subpath"
)

// WithScriptName saves the URL prefix already consumed by routing in the request's context
func WithScriptName(r *http.Request, scriptName string) *http.Request {
	ctx := context.WithValue(r.Context(), ctxScriptNameKey, scriptName)

	return r.WithContext(ctx)
}

// ScriptName extracts the consumed URL prefix from request's context,
// it is empty when the request was not routed through a mount point
func ScriptName(r *http.Request) string {
	scriptName, _ := r.Context().Value(ctxScriptNameKey).(string)

	return scriptName
}

// WithSubpath saves the path segments left over after routing in the request's context
func WithSubpath(r *http.Request, subpath []string) *http.Request {
	ctx := context.WithValue(r.Context(), ctxSubpathKey, subpath)

	return r.WithContext(ctx)
}

// Subpath extracts the path segments left over after routing from
// request's context and reports whether the router provided any
func Subpath(r *http.Request) ([]string, bool) {
	subpath, ok := r.Context().Value(ctxSubpathKey).([]string)

	return subpath, ok
}

// IsHTTPS reports whether the request reached us, or the proxy in front of
// us, over TLS
func IsHTTPS(r *http.Request) bool {
	return r.TLS != nil || r.URL.Scheme == "https"
}

// Scheme returns the scheme of the URL the client requested
func Scheme(r *http.Request) string {
	if IsHTTPS(r) {
		return "https"
	}

	return "http"
}
