package main

import (
	"context"
	"fmt"
	"io"
	"net/http"

	ghandlers "github.com/gorilla/handlers"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
	"gitlab.com/gitlab-org/labkit/correlation"
	"golang.org/x/sync/errgroup"

	cfg "gitlab.com/gitlab-org/gitlab-static/internal/config"
	"gitlab.com/gitlab-org/gitlab-static/internal/healthcheck"
	"gitlab.com/gitlab-org/gitlab-static/internal/logging"
	"gitlab.com/gitlab-org/gitlab-static/internal/mimetypes"
	"gitlab.com/gitlab-org/gitlab-static/internal/mounts"
	"gitlab.com/gitlab-org/gitlab-static/internal/netutil"
	"gitlab.com/gitlab-org/gitlab-static/internal/rejectmethods"
	"gitlab.com/gitlab-org/gitlab-static/internal/resource"
	"gitlab.com/gitlab-org/gitlab-static/internal/staticview"
	"gitlab.com/gitlab-org/gitlab-static/internal/urilimiter"
	"gitlab.com/gitlab-org/gitlab-static/internal/vfs"
	"gitlab.com/gitlab-org/gitlab-static/internal/vfs/local"
	"gitlab.com/gitlab-org/gitlab-static/metrics"
)

var corsHandler = cors.New(cors.Options{AllowedMethods: []string{http.MethodGet, http.MethodHead}})

type theApp struct {
	config *cfg.Config
	fs     *local.VFS

	// limiter is shared by the HTTP and proxy listeners, nil without -max-conns
	limiter *netutil.Limiter

	// handler serves plain HTTP listeners, proxyHandler serves listeners
	// behind a proxy setting X-Forwarded-* headers
	handler      http.Handler
	proxyHandler http.Handler
}

func newApp(config *cfg.Config, mimes mimetypes.Table, accessLog io.Writer) (*theApp, error) {
	a := &theApp{
		config: config,
		fs:     local.New(config.Static.RootCacheSize, config.Static.RootCacheExpiry),
	}

	router, err := a.buildRouter(mimes)
	if err != nil {
		a.Stop()
		return nil, err
	}

	a.handler, err = a.buildHandler(router, accessLog)
	if err != nil {
		a.Stop()
		return nil, err
	}

	a.proxyHandler = ghandlers.ProxyHeaders(a.handler)

	if config.General.MaxConns > 0 {
		a.limiter = netutil.NewLimiter(
			config.General.MaxConns,
			metrics.LimitListenerMaxConns,
			metrics.LimitListenerConcurrentConns,
			metrics.LimitListenerWaitingConns,
		)
	}

	return a, nil
}

func (a *theApp) staticOptions() []staticview.Option {
	opts := []staticview.Option{staticview.WithIndex(a.config.Static.Index)}

	if a.config.Static.CacheMaxAge < 0 {
		opts = append(opts, staticview.WithoutCacheMaxAge())
	} else {
		opts = append(opts, staticview.WithCacheMaxAge(a.config.Static.CacheMaxAge))
	}

	if a.config.Static.UseSubpath {
		opts = append(opts, staticview.WithSubpath())
	}

	return opts
}

// buildRouter creates one resolver per mount point. Docroots are resolved
// on first use, so a mount whose directory appears later starts serving
// without a restart of the daemon.
func (a *theApp) buildRouter(mimes mimetypes.Table) (http.Handler, error) {
	namespaces := resource.StaticNamespaces(a.config.Namespaces)
	fs := vfs.Instrumented(a.fs)
	opts := a.staticOptions()

	ms := make([]mounts.Mount, 0, len(a.config.Mounts))
	for _, m := range a.config.Mounts {
		handler, err := staticview.New(m.Locator, namespaces, fs, mimes, opts...)
		if err != nil {
			return nil, fmt.Errorf("mount %q: %w", m.Raw, err)
		}

		log.WithFields(log.Fields{
			"prefix":  m.Prefix,
			"locator": m.Locator,
		}).Debug("Mounting docroot")

		ms = append(ms, mounts.Mount{Prefix: m.Prefix, Handler: handler})
	}

	return mounts.NewRouter(ms)
}

// buildHandler wraps the router with the middleware chain. The first
// middleware applied is the last one to see the request.
func (a *theApp) buildHandler(handler http.Handler, accessLog io.Writer) (http.Handler, error) {
	handler = rejectmethods.NewMiddleware(handler)
	handler = healthcheck.NewMiddleware(handler, a.config.General.StatusPath)
	handler = urilimiter.NewMiddleware(handler, a.config.General.MaxURILength)

	if !a.config.General.DisableCrossOriginRequests {
		handler = corsHandler.Handler(handler)
	}

	handler, err := logging.BasicAccessLogger(handler, a.config.Log.Format, accessLog)
	if err != nil {
		return nil, err
	}

	correlationOpts := []correlation.InboundHandlerOption{
		correlation.WithSetResponseHeader(),
	}
	if a.config.General.PropagateCorrelationID {
		correlationOpts = append(correlationOpts, correlation.WithPropagation())
	}

	return correlation.InjectCorrelationID(handler, correlationOpts...), nil
}

// Run serves every configured listener until ctx is done or one of them
// fails, then shuts all of them down
func (a *theApp) Run(ctx context.Context) error {
	listeners, err := a.listen(ctx)
	if err != nil {
		return err
	}

	return a.serve(ctx, listeners)
}

func (a *theApp) serve(ctx context.Context, listeners []listenerConfig) error {
	eg, ctx := errgroup.WithContext(ctx)

	servers := make([]*http.Server, 0, len(listeners))
	for _, lc := range listeners {
		server := a.newServer(lc.handler)
		servers = append(servers, server)

		lc := lc
		eg.Go(func() error {
			log.WithFields(log.Fields{
				"listener": lc.listener.Addr().String(),
				"type":     lc.kind,
			}).Info("Serving")

			return serve(server, lc.listener)
		})
	}

	eg.Go(func() error {
		<-ctx.Done()

		return shutdown(servers, a.config.Server.ShutdownTimeout)
	})

	return eg.Wait()
}

func (a *theApp) metricsHandler() http.Handler {
	return promhttp.Handler()
}

// Stop releases the docroot cache
func (a *theApp) Stop() {
	a.fs.Stop()
}
