package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	cfg "gitlab.com/gitlab-org/gitlab-static/internal/config"
	"gitlab.com/gitlab-org/gitlab-static/internal/errortracking"
	"gitlab.com/gitlab-org/gitlab-static/internal/logging"
	"gitlab.com/gitlab-org/gitlab-static/internal/mimetypes"
	"gitlab.com/gitlab-org/gitlab-static/metrics"
)

// VERSION stores the information about the semantic version of application
var VERSION = "dev"

// REVISION stores the information about the git revision of application
var REVISION = "HEAD"

func initErrorReporting(config *cfg.Config) {
	err := errortracking.Initialize(
		config.Sentry.DSN,
		config.Sentry.Environment,
		fmt.Sprintf("%s-%s", VERSION, REVISION),
	)
	if err != nil {
		log.WithError(err).Warn("failed to initialize error reporting")
	}
}

// logOutput returns the rotated log file, or nil to keep logging to stderr
func logOutput(config *cfg.Config) io.WriteCloser {
	if config.Log.File.Path == "" {
		return nil
	}

	return logging.NewFileWriter(config.Log.File)
}

func appMain() {
	config, err := cfg.LoadConfig()
	if err != nil {
		log.WithError(err).Fatal("Failed to load config")
	}

	printVersion(config.General.ShowVersion, VERSION)

	var accessLog io.Writer
	if out := logOutput(config); out != nil {
		defer out.Close()
		accessLog = out
	}

	if err := logging.ConfigureLogging(config.Log.Format, config.Log.Verbose, accessLog); err != nil {
		log.WithError(err).Fatal("Failed to initialize logging")
	}

	cfg.LogConfig(config)

	log.WithFields(log.Fields{
		"version":  VERSION,
		"revision": REVISION,
	}).Print("GitLab Static Daemon")
	log.Printf("URL: https://gitlab.com/gitlab-org/gitlab-static")

	if config.Sentry.DSN != "" {
		initErrorReporting(config)
	}

	// the MIME database is loaded once, before any request is served
	mimes := mimetypes.New()
	mimetypes.Init(mimes)

	metrics.MustRegister()

	a, err := newApp(config, mimes, accessLog)
	if err != nil {
		errortracking.CaptureErrWithStackTrace(err)
		fatal(err, "could not create the static daemon")
	}
	defer a.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.Run(ctx); err != nil {
		errortracking.CaptureErrWithStackTrace(err)
		fatal(err, "could not serve static files")
	}

	log.Info("GitLab Static Daemon stopped")
}

func printVersion(showVersion bool, version string) {
	if showVersion {
		fmt.Fprintf(os.Stdout, "%s\n", version)
		os.Exit(0)
	}
}

func fatal(err error, message string) {
	log.WithError(err).Fatal(message)
}

func main() {
	log.SetOutput(os.Stderr)

	appMain()
}
