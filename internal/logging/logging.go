package logging

import (
	"io"
	"net/http"

	"github.com/sirupsen/logrus"
	"gitlab.com/gitlab-org/labkit/correlation"
	"gitlab.com/gitlab-org/labkit/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"gitlab.com/gitlab-org/gitlab-static/internal/request"
)

// FileOptions configures rotation of the log file
type FileOptions struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// NewFileWriter returns a writer appending to opts.Path, rotating the file
// once it grows over opts.MaxSizeMB
func NewFileWriter(opts FileOptions) io.WriteCloser {
	return &lumberjack.Logger{
		Filename:   opts.Path,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Compress:   false,
	}
}

// ConfigureLogging will initialize the system logger.
// A nil out keeps the labkit default of stderr.
func ConfigureLogging(format string, verbose bool, out io.Writer) error {
	var levelOption log.LoggerOption

	if format == "" {
		format = "json"
	}

	if verbose {
		levelOption = log.WithLogLevel("trace")
	} else {
		levelOption = log.WithLogLevel("info")
	}

	opts := []log.LoggerOption{
		log.WithFormatter(format),
		levelOption,
	}

	if out != nil {
		opts = append(opts, log.WithWriter(out))
	}

	_, err := log.Initialize(opts...)
	return err
}

// getAccessLogger will return the default logger, except when
// the log format is text, in which case a combined HTTP access
// logger will be configured.
func getAccessLogger(format string, out io.Writer) (*logrus.Logger, error) {
	if format != "text" && format != "" {
		return logrus.StandardLogger(), nil
	}

	accessLogger := log.New()
	opts := []log.LoggerOption{
		log.WithLogger(accessLogger),  // Configure `accessLogger`
		log.WithFormatter("combined"), // Use the combined formatter
	}

	if out != nil {
		opts = append(opts, log.WithWriter(out))
	}

	_, err := log.Initialize(opts...)
	if err != nil {
		return nil, err
	}

	return accessLogger, nil
}

// BasicAccessLogger configures the HTTP access logger middleware
func BasicAccessLogger(handler http.Handler, format string, out io.Writer) (http.Handler, error) {
	accessLogger, err := getAccessLogger(format, out)
	if err != nil {
		return nil, err
	}

	return log.AccessLogger(handler,
		log.WithExtraFields(extraFields),
		log.WithAccessLogger(accessLogger),
		log.WithXFFAllowed(func(sip string) bool { return false }),
	), nil
}

func extraFields(r *http.Request) log.Fields {
	return log.Fields{
		"correlation_id":     correlation.ExtractFromContext(r.Context()),
		"static_https":       request.IsHTTPS(r),
		"static_host":        r.Host,
		"static_script_name": request.ScriptName(r),
	}
}

// LogRequest will inject request host and path to the logged messages
func LogRequest(r *http.Request) *logrus.Entry {
	return log.WithFields(log.Fields{
		"correlation_id": correlation.ExtractFromContext(r.Context()),
		"host":           r.Host,
		"path":           r.URL.Path,
	})
}
