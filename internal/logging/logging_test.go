package logging

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gitlab.com/gitlab-org/labkit/correlation"

	"gitlab.com/gitlab-org/gitlab-static/internal/request"
)

func TestExtraFields(t *testing.T) {
	tests := map[string]struct {
		url           string
		scriptName    string
		expectedHTTPS bool
	}{
		"https": {
			url:           "https://example.com/static/index.html",
			scriptName:    "/static",
			expectedHTTPS: true,
		},
		"http": {
			url:        "http://example.com/index.html",
			scriptName: "",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			req, err := http.NewRequest("GET", tt.url, nil)
			require.NoError(t, err)

			req = req.WithContext(correlation.ContextWithCorrelation(req.Context(), "abc123"))
			req = request.WithScriptName(req, tt.scriptName)

			got := extraFields(req)
			require.Equal(t, tt.expectedHTTPS, got["static_https"])
			require.Equal(t, "example.com", got["static_host"])
			require.Equal(t, tt.scriptName, got["static_script_name"])
			require.Equal(t, "abc123", got["correlation_id"])
		})
	}
}

func TestLogRequest(t *testing.T) {
	req := httptest.NewRequest("GET", "http://example.com/subdir/", nil)

	entry := LogRequest(req)
	require.Equal(t, "example.com", entry.Data["host"])
	require.Equal(t, "/subdir/", entry.Data["path"])
}

func TestBasicAccessLogger(t *testing.T) {
	buf := &bytes.Buffer{}

	handler, err := BasicAccessLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}), "text", buf)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "http://example.com/index.html", nil))

	require.Equal(t, http.StatusNoContent, w.Code)
	require.Contains(t, buf.String(), "GET /index.html")
}

func TestConfigureLogging(t *testing.T) {
	buf := &bytes.Buffer{}
	defer logrus.SetOutput(logrus.StandardLogger().Out)

	require.NoError(t, ConfigureLogging("json", true, buf))
	require.Equal(t, logrus.TraceLevel, logrus.GetLevel())

	logrus.Info("hello")
	require.Contains(t, buf.String(), `"msg":"hello"`)

	require.NoError(t, ConfigureLogging("text", false, buf))
	require.Equal(t, logrus.InfoLevel, logrus.GetLevel())
}

func TestNewFileWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "static.log")

	w := NewFileWriter(FileOptions{Path: path, MaxSizeMB: 1})
	defer w.Close()

	_, err := w.Write([]byte("line\n"))
	require.NoError(t, err)
	require.FileExists(t, path)
}
