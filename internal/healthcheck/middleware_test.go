package healthcheck_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"gitlab.com/gitlab-org/gitlab-static/internal/healthcheck"
)

func TestHealthCheckMiddleware(t *testing.T) {
	tests := map[string]struct {
		method     string
		path       string
		statusPath string
		body       string
	}{
		"not a healthcheck request": {
			method:     http.MethodGet,
			path:       "/foo/bar",
			statusPath: "/-/healthcheck",
			body:       "Hello from inner handler",
		},
		"healthcheck request": {
			method:     http.MethodGet,
			path:       "/-/healthcheck",
			statusPath: "/-/healthcheck",
			body:       "success\n",
		},
		"healthcheck HEAD request": {
			method:     http.MethodHead,
			path:       "/-/healthcheck",
			statusPath: "/-/healthcheck",
			body:       "",
		},
		"healthcheck POST request": {
			method:     http.MethodPost,
			path:       "/-/healthcheck",
			statusPath: "/-/healthcheck",
			body:       "Hello from inner handler",
		},
		"disabled": {
			method: http.MethodGet,
			path:   "/",
			body:   "Hello from inner handler",
		},
	}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, "Hello from inner handler")
	})

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			r := httptest.NewRequest(tc.method, tc.path, nil)
			rr := httptest.NewRecorder()

			middleware := healthcheck.NewMiddleware(handler, tc.statusPath)
			middleware.ServeHTTP(rr, r)

			require.Equal(t, http.StatusOK, rr.Code)
			require.Equal(t, tc.body, rr.Body.String())
		})
	}
}
