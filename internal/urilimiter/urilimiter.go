package urilimiter

import (
	"net/http"

	"gitlab.com/gitlab-org/gitlab-static/internal/httperrors"
	"gitlab.com/gitlab-org/gitlab-static/internal/logging"
)

// NewMiddleware rejects requests whose URI is longer than limit bytes
// before any path resolution happens. A limit of 0 disables the check.
func NewMiddleware(handler http.Handler, limit int) http.Handler {
	if limit == 0 {
		return handler
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(r.RequestURI) > limit {
			logging.LogRequest(r).
				WithField("uri_length", len(r.RequestURI)).
				WithField("uri_limit", limit).
				Debug("URI too long")

			httperrors.Serve414(w)
			return
		}

		handler.ServeHTTP(w, r)
	})
}
