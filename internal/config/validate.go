package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"

	"gitlab.com/gitlab-org/gitlab-static/internal/mounts"
	"gitlab.com/gitlab-org/gitlab-static/internal/resource"
)

var (
	ErrNoListener           = errors.New("no listener defined, please specify at least one --listen-* flag")
	ErrNoMount              = errors.New("no mount defined, please specify at least one --mount flag")
	ErrInvalidMount         = errors.New("mount must be <prefix>=<namespace>:<dir> or <prefix>=<absolute dir>")
	ErrDuplicateMount       = errors.New("mount prefix is used more than once")
	ErrInvalidNamespace     = errors.New("namespace must be <name>=<absolute dir>")
	ErrDuplicateNamespace   = errors.New("namespace is defined more than once")
	ErrUndefinedNamespace   = errors.New("mount refers to an undefined namespace")
	ErrInvalidIndex         = errors.New("index must be a single file name")
	ErrInvalidLogFormat     = errors.New("log-format must be either text or json")
	ErrInvalidRootCacheSize = errors.New("root-cache-size must be greater than or equal to 0")
	ErrInvalidMaxConns      = errors.New("max-conns must be greater than or equal to 0")
	ErrInvalidStatusPath    = errors.New("status-path must be an absolute URL path")
)

func validateConfig(config *Config, namespaces []Pair) error {
	var result *multierror.Error

	if len(config.Listeners.HTTP) == 0 && len(config.Listeners.Proxy) == 0 {
		result = multierror.Append(result, ErrNoListener)
	}

	result = multierror.Append(result, validateNamespaces(namespaces))
	result = multierror.Append(result, validateMounts(config))
	result = multierror.Append(result, validateStatic(config.Static))

	if config.General.MaxConns < 0 {
		result = multierror.Append(result, ErrInvalidMaxConns)
	}

	if config.General.StatusPath != "" && !strings.HasPrefix(config.General.StatusPath, "/") {
		result = multierror.Append(result, fmt.Errorf("%q: %w", config.General.StatusPath, ErrInvalidStatusPath))
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		result = multierror.Append(result, fmt.Errorf("%q: %w", config.Log.Format, ErrInvalidLogFormat))
	}

	return result.ErrorOrNil()
}

func validateNamespaces(namespaces []Pair) error {
	var result *multierror.Error

	seen := make(map[string]bool, len(namespaces))

	for _, ns := range namespaces {
		if !strings.Contains(ns.Raw, pairSeparator) || strings.Contains(ns.Key, ":") || !filepath.IsAbs(ns.Value) {
			result = multierror.Append(result, fmt.Errorf("%q: %w", ns.Raw, ErrInvalidNamespace))
			continue
		}

		if seen[ns.Key] {
			result = multierror.Append(result, fmt.Errorf("%q: %w", ns.Key, ErrDuplicateNamespace))
		}
		seen[ns.Key] = true
	}

	return result.ErrorOrNil()
}

func validateMounts(config *Config) error {
	if len(config.Mounts) == 0 {
		return ErrNoMount
	}

	var result *multierror.Error

	seen := make(map[string]bool, len(config.Mounts))

	for _, m := range config.Mounts {
		prefix, err := mounts.NormalizePrefix(m.Prefix)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("%q: %w: %v", m.Raw, ErrInvalidMount, err))
			continue
		}

		locator, err := resource.ParseLocator(m.Locator)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("%q: %w: %v", m.Raw, ErrInvalidMount, err))
			continue
		}

		if seen[prefix] {
			result = multierror.Append(result, fmt.Errorf("%q: %w", m.Prefix, ErrDuplicateMount))
		}
		seen[prefix] = true

		if locator.IsAbs() {
			continue
		}

		if _, ok := config.Namespaces[locator.Namespace]; !ok {
			result = multierror.Append(result, fmt.Errorf("%q: %w %q", m.Raw, ErrUndefinedNamespace, locator.Namespace))
		}
	}

	return result.ErrorOrNil()
}

func validateStatic(static Static) error {
	var result *multierror.Error

	switch {
	case static.Index == "", static.Index == ".", static.Index == "..",
		strings.ContainsAny(static.Index, `/\%`), strings.ContainsRune(static.Index, 0):
		result = multierror.Append(result, fmt.Errorf("%q: %w", static.Index, ErrInvalidIndex))
	}

	if static.RootCacheSize < 0 {
		result = multierror.Append(result, ErrInvalidRootCacheSize)
	}

	return result.ErrorOrNil()
}
