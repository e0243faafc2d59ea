package config

import (
	"strings"
	"time"

	"github.com/namsral/flag"
	log "github.com/sirupsen/logrus"

	"gitlab.com/gitlab-org/gitlab-static/internal/logging"
)

// DefaultNamespace is the namespace of locators given as a bare relative
// directory. Its base directory is the working directory unless a
// namespace definition with an empty name overrides it.
const DefaultNamespace = ""

// Config stores all the config options relevant to GitLab Static.
type Config struct {
	General    General
	Listeners  Listeners
	Log        Log
	Sentry     Sentry
	Server     Server
	Static     Static
	Mounts     []Mount
	Namespaces map[string]string
}

// General groups settings that are general to GitLab Static and can not
// be categorized under other head.
type General struct {
	MetricsAddress string
	MaxConns       int
	MaxURILength   int
	StatusPath     string

	DisableCrossOriginRequests bool
	PropagateCorrelationID     bool

	ShowVersion bool
}

// Listeners groups the addresses to listen on, plain HTTP and behind a
// proxy speaking the PROXY protocol
type Listeners struct {
	HTTP  []string
	Proxy []string
}

// Log groups settings related to configuring logging
type Log struct {
	Format  string
	Verbose bool
	File    logging.FileOptions
}

// Sentry groups settings related to configuring Sentry
type Sentry struct {
	DSN         string
	Environment string
}

// Server groups the HTTP server timeouts
type Server struct {
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	ShutdownTimeout   time.Duration
}

// Static groups the settings shared by every mounted docroot
type Static struct {
	Index string
	// CacheMaxAge is in seconds, a negative value disables the cache headers
	CacheMaxAge     int
	UseSubpath      bool
	RootCacheSize   int64
	RootCacheExpiry time.Duration
}

// Mount serves the docroot identified by Locator below the URL Prefix
type Mount struct {
	Prefix  string
	Locator string
	// Raw is the -mount value this mount was parsed from
	Raw string
}

func loadConfig() (*Config, error) {
	config := &Config{
		General: General{
			MetricsAddress:             *metricsAddress,
			MaxConns:                   *maxConns,
			MaxURILength:               *maxURILength,
			StatusPath:                 *statusPath,
			DisableCrossOriginRequests: *disableCrossOriginRequests,
			PropagateCorrelationID:     *propagateCorrelationID,
			ShowVersion:                *showVersion,
		},
		Listeners: Listeners{
			HTTP:  listenHTTP.Split(),
			Proxy: listenProxy.Split(),
		},
		Log: Log{
			Format:  *logFormat,
			Verbose: *logVerbose,
			File: logging.FileOptions{
				Path:       *logFile,
				MaxSizeMB:  *logFileMaxSize,
				MaxBackups: *logFileMaxBackups,
				MaxAgeDays: *logFileMaxAge,
			},
		},
		Sentry: Sentry{
			DSN:         *sentryDSN,
			Environment: *sentryEnvironment,
		},
		Server: Server{
			ReadTimeout:       *serverReadTimeout,
			ReadHeaderTimeout: *serverReadHeaderTimeout,
			WriteTimeout:      *serverWriteTimeout,
			ShutdownTimeout:   *serverShutdownTimeout,
		},
		Static: Static{
			Index:           *index,
			CacheMaxAge:     *cacheMaxAge,
			UseSubpath:      *useSubpath,
			RootCacheSize:   *rootCacheSize,
			RootCacheExpiry: *rootCacheExpiry,
		},
		Namespaces: map[string]string{DefaultNamespace: "."},
	}

	for _, pair := range mount.Pairs() {
		config.Mounts = append(config.Mounts, Mount{Prefix: pair.Key, Locator: pair.Value, Raw: pair.Raw})
	}

	definitions := namespace.Pairs()
	for _, pair := range definitions {
		config.Namespaces[pair.Key] = pair.Value
	}

	// --version only prints the version and exits
	if config.General.ShowVersion {
		return config, nil
	}

	if err := validateConfig(config, definitions); err != nil {
		return nil, err
	}

	return config, nil
}

func LogConfig(config *Config) {
	log.WithFields(log.Fields{
		"cache-max-age":                 config.Static.CacheMaxAge,
		"default-config-filename":       flag.DefaultConfigFlagname,
		"disable-cross-origin-requests": config.General.DisableCrossOriginRequests,
		"index":                         config.Static.Index,
		"listen-http":                   strings.Join(config.Listeners.HTTP, ","),
		"listen-proxy":                  strings.Join(config.Listeners.Proxy, ","),
		"log-file":                      config.Log.File.Path,
		"log-format":                    config.Log.Format,
		"max-conns":                     config.General.MaxConns,
		"max-uri-length":                config.General.MaxURILength,
		"metrics-address":               config.General.MetricsAddress,
		"mount":                         mount.String(),
		"namespace":                     namespace.String(),
		"propagate-correlation-id":      config.General.PropagateCorrelationID,
		"root-cache-expiry":             config.Static.RootCacheExpiry,
		"root-cache-size":               config.Static.RootCacheSize,
		"server-shutdown-timeout":       config.Server.ShutdownTimeout,
		"status-path":                   config.General.StatusPath,
		"use-subpath":                   config.Static.UseSubpath,
	}).Debug("Start daemon with configuration")
}

// LoadConfig parses configuration settings passed as command line arguments or
// via config file, and populates a Config object with those values
func LoadConfig() (*Config, error) {
	initFlags()

	return loadConfig()
}
