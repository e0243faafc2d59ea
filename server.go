package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-multierror"
	proxyproto "github.com/pires/go-proxyproto"
	log "github.com/sirupsen/logrus"

	"gitlab.com/gitlab-org/gitlab-static/internal/netutil"
)

const keepAlivePeriod = 3 * time.Minute

type listenerKind string

const (
	httpListener    listenerKind = "http"
	proxyListener   listenerKind = "proxy"
	metricsListener listenerKind = "metrics"
)

type listenerConfig struct {
	kind     listenerKind
	listener net.Listener
	handler  http.Handler
}

// listen binds every configured address. Nothing is served until all of
// them are bound, a failure closes the ones bound so far.
func (a *theApp) listen(ctx context.Context) (listeners []listenerConfig, err error) {
	defer func() {
		if err != nil {
			for _, lc := range listeners {
				lc.listener.Close()
			}
			listeners = nil
		}
	}()

	add := func(kind listenerKind, addr string, handler http.Handler) error {
		l, err := createListener(ctx, addr)
		if err != nil {
			return fmt.Errorf("failed to listen on %s for %s requests: %w", addr, kind, err)
		}

		if kind != metricsListener && a.limiter != nil {
			l = netutil.SharedLimitListener(l, a.limiter)
		}

		if kind == proxyListener {
			l = &proxyproto.Listener{
				Listener: l,
				Policy: func(upstream net.Addr) (proxyproto.Policy, error) {
					return proxyproto.REQUIRE, nil
				},
			}
		}

		log.WithFields(log.Fields{
			"listener": addr,
			"type":     kind,
		}).Debug("Set up listener")

		listeners = append(listeners, listenerConfig{kind: kind, listener: l, handler: handler})
		return nil
	}

	for _, addr := range a.config.Listeners.HTTP {
		if err := add(httpListener, addr, a.handler); err != nil {
			return listeners, err
		}
	}

	for _, addr := range a.config.Listeners.Proxy {
		if err := add(proxyListener, addr, a.proxyHandler); err != nil {
			return listeners, err
		}
	}

	if addr := a.config.General.MetricsAddress; addr != "" {
		if err := add(metricsListener, addr, a.metricsHandler()); err != nil {
			return listeners, err
		}
	}

	return listeners, nil
}

// createListener listens on a TCP address, or on a unix socket when addr
// is an absolute path
func createListener(ctx context.Context, addr string) (net.Listener, error) {
	network := "tcp"
	if filepath.IsAbs(addr) {
		network = "unix"
	}

	lc := net.ListenConfig{KeepAlive: keepAlivePeriod}

	return lc.Listen(ctx, network, addr)
}

func (a *theApp) newServer(handler http.Handler) *http.Server {
	return &http.Server{
		Handler:           handler,
		ReadTimeout:       a.config.Server.ReadTimeout,
		ReadHeaderTimeout: a.config.Server.ReadHeaderTimeout,
		WriteTimeout:      a.config.Server.WriteTimeout,
	}
}

func serve(server *http.Server, l net.Listener) error {
	if err := server.Serve(l); !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func shutdown(servers []*http.Server, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var result *multierror.Error
	for _, server := range servers {
		if err := server.Shutdown(ctx); err != nil {
			result = multierror.Append(result, err)
		}
	}

	return result.ErrorOrNil()
}
