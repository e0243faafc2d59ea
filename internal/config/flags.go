package config

import (
	"time"

	"github.com/namsral/flag"
)

var (
	metricsAddress         = flag.String("metrics-address", "", "The address to listen on for metrics requests")
	sentryDSN              = flag.String("sentry-dsn", "", "The address for sending sentry crash reporting to")
	sentryEnvironment      = flag.String("sentry-environment", "", "The environment for sentry crash reporting")
	propagateCorrelationID = flag.Bool("propagate-correlation-id", true, "Reuse existing Correlation-ID from the incoming request header `X-Request-ID` if present")
	serverShutdownTimeout  = flag.Duration("server-shutdown-timeout", 30*time.Second, "GitLab Static server shutdown timeout (default: 30s)")

	logFormat         = flag.String("log-format", "json", "The log output format: 'text' or 'json'")
	logVerbose        = flag.Bool("log-verbose", false, "Verbose logging")
	logFile           = flag.String("log-file", "", "Write logs to this file instead of stderr, rotating it by size")
	logFileMaxSize    = flag.Int("log-file-max-size", 100, "The maximum size in megabytes of the log file before it gets rotated")
	logFileMaxBackups = flag.Int("log-file-max-backups", 5, "The maximum number of rotated log files to retain, 0 retains all of them")
	logFileMaxAge     = flag.Int("log-file-max-age", 28, "The maximum number of days to retain rotated log files, 0 retains them forever")

	index           = flag.String("index", "index.html", "The file served for requests resolving to a directory")
	cacheMaxAge     = flag.Int("cache-max-age", 3600, "Cache-Control max-age in seconds, a negative value disables the Cache-Control and Expires headers")
	useSubpath      = flag.Bool("use-subpath", false, "Resolve the path below the mount point as matched by the router instead of the full request path")
	rootCacheSize   = flag.Int64("root-cache-size", 1000, "The maximum number of resolved docroots kept in the cache, 0 disables the cache")
	rootCacheExpiry = flag.Duration("root-cache-expiry", time.Minute, "The maximum time a resolved docroot is kept in the cache")

	maxConns     = flag.Int("max-conns", 0, "Limit on the number of concurrent connections to the HTTP or proxy listeners, 0 for no limit")
	maxURILength = flag.Int("max-uri-length", 1024, "Limit the length of URI, 0 for unlimited.")
	statusPath   = flag.String("status-path", "", "The url path for a status page, e.g., /-/healthcheck")

	// HTTP server timeouts
	serverReadTimeout       = flag.Duration("server-read-timeout", 5*time.Second, "ReadTimeout is the maximum duration for reading the entire request, including the body. A zero or negative value means there will be no timeout.")
	serverReadHeaderTimeout = flag.Duration("server-read-header-timeout", time.Second, "ReadHeaderTimeout is the amount of time allowed to read request headers. A zero or negative value means there will be no timeout.")
	serverWriteTimeout      = flag.Duration("server-write-timeout", 0, "WriteTimeout is the maximum duration before timing out writes of the response. A zero or negative value means there will be no timeout.")

	disableCrossOriginRequests = flag.Bool("disable-cross-origin-requests", false, "Disable cross-origin requests")

	showVersion = flag.Bool("version", false, "Show version")

	// See initFlags()
	listenHTTP  = MultiStringFlag{separator: ","}
	listenProxy = MultiStringFlag{separator: ","}

	mount     = MultiStringFlag{separator: ";;"}
	namespace = MultiStringFlag{separator: ";;"}
)

// initFlags will be called from LoadConfig
func initFlags() {
	flag.Var(&listenHTTP, "listen-http", "The address(es) or unix socket paths to listen on for HTTP requests")
	flag.Var(&listenProxy, "listen-proxy", "The address(es) or unix socket paths to listen on for PROXYv2 requests (https://www.haproxy.org/download/1.8/doc/proxy-protocol.txt)")
	flag.Var(&mount, "mount", "Serve a docroot below a URL prefix, as <prefix>=<namespace>:<dir> or <prefix>=<absolute dir>")
	flag.Var(&namespace, "namespace", "The base directory of a namespace used by mounts, as <name>=<absolute dir>")

	// read from -config=/path/to/gitlab-static-config
	flag.String(flag.DefaultConfigFlagname, "", "path to config file")

	flag.Parse()
}
