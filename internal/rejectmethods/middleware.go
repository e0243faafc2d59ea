package rejectmethods

import (
	"net/http"

	"gitlab.com/gitlab-org/gitlab-static/internal/httperrors"
)

var acceptedMethods = map[string]bool{
	http.MethodGet:  true,
	http.MethodHead: true,
}

// NewMiddleware returns middleware which rejects every request method that
// cannot read a static resource
func NewMiddleware(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !acceptedMethods[r.Method] {
			w.Header().Set("Allow", "GET, HEAD")
			httperrors.Serve405(w)
			return
		}

		handler.ServeHTTP(w, r)
	})
}
