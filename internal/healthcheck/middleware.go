package healthcheck

import (
	"net/http"
)

const body = "success\n"

// NewMiddleware answers GET and HEAD requests for statusPath with a plain
// success message and passes every other request on to handler. An empty
// statusPath disables the check.
func NewMiddleware(handler http.Handler, statusPath string) http.Handler {
	if statusPath == "" {
		return handler
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != statusPath || (r.Method != http.MethodGet && r.Method != http.MethodHead) {
			handler.ServeHTTP(w, r)
			return
		}

		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)

		if r.Method == http.MethodGet {
			w.Write([]byte(body))
		}
	})
}
