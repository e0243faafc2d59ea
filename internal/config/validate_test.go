package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Listeners: Listeners{HTTP: []string{":8080"}},
		Log:       Log{Format: "json"},
		Static:    Static{Index: "index.html", CacheMaxAge: 3600},
		Mounts: []Mount{
			{Prefix: "/", Locator: "/srv/www", Raw: "/=/srv/www"},
			{Prefix: "/static", Locator: "assets:public", Raw: "/static=assets:public"},
		},
		Namespaces: map[string]string{DefaultNamespace: ".", "assets": "/srv/assets"},
	}
}

func TestConfigValidate(t *testing.T) {
	tests := map[string]struct {
		cfg         func(*Config)
		namespaces  []Pair
		expectedErr error
	}{
		"valid": {
			cfg:        func(*Config) {},
			namespaces: []Pair{{Key: "assets", Value: "/srv/assets", Raw: "assets=/srv/assets"}},
		},
		"proxy listener only": {
			cfg: func(c *Config) {
				c.Listeners = Listeners{Proxy: []string{":8081"}}
			},
		},
		"no listeners": {
			cfg: func(c *Config) {
				c.Listeners = Listeners{}
			},
			expectedErr: ErrNoListener,
		},
		"no mounts": {
			cfg: func(c *Config) {
				c.Mounts = nil
			},
			expectedErr: ErrNoMount,
		},
		"relative mount prefix": {
			cfg: func(c *Config) {
				c.Mounts = []Mount{{Prefix: "static", Locator: "/srv/www", Raw: "static=/srv/www"}}
			},
			expectedErr: ErrInvalidMount,
		},
		"mount without locator": {
			cfg: func(c *Config) {
				c.Mounts = []Mount{{Prefix: "/static", Raw: "/static"}}
			},
			expectedErr: ErrInvalidMount,
		},
		"mount with an absolute dir in a namespace": {
			cfg: func(c *Config) {
				c.Mounts = []Mount{{Prefix: "/static", Locator: "assets:/srv/www", Raw: "/static=assets:/srv/www"}}
			},
			expectedErr: ErrInvalidMount,
		},
		"duplicate mount prefix": {
			cfg: func(c *Config) {
				c.Mounts = append(c.Mounts, Mount{Prefix: "/static/", Locator: "/srv/other", Raw: "/static/=/srv/other"})
			},
			expectedErr: ErrDuplicateMount,
		},
		"undefined namespace": {
			cfg: func(c *Config) {
				c.Mounts = []Mount{{Prefix: "/static", Locator: "unknown:public", Raw: "/static=unknown:public"}}
			},
			expectedErr: ErrUndefinedNamespace,
		},
		"default namespace": {
			cfg: func(c *Config) {
				c.Mounts = []Mount{{Prefix: "/static", Locator: "public", Raw: "/static=public"}}
			},
		},
		"relative namespace dir": {
			cfg:         func(*Config) {},
			namespaces:  []Pair{{Key: "assets", Value: "srv/assets", Raw: "assets=srv/assets"}},
			expectedErr: ErrInvalidNamespace,
		},
		"namespace without dir": {
			cfg:         func(*Config) {},
			namespaces:  []Pair{{Key: "assets", Raw: "assets"}},
			expectedErr: ErrInvalidNamespace,
		},
		"namespace name with a colon": {
			cfg:         func(*Config) {},
			namespaces:  []Pair{{Key: "a:b", Value: "/srv", Raw: "a:b=/srv"}},
			expectedErr: ErrInvalidNamespace,
		},
		"duplicate namespace": {
			cfg: func(*Config) {},
			namespaces: []Pair{
				{Key: "assets", Value: "/srv/assets", Raw: "assets=/srv/assets"},
				{Key: "assets", Value: "/srv/other", Raw: "assets=/srv/other"},
			},
			expectedErr: ErrDuplicateNamespace,
		},
		"index with a slash": {
			cfg: func(c *Config) {
				c.Static.Index = "sub/index.html"
			},
			expectedErr: ErrInvalidIndex,
		},
		"index with a backslash": {
			cfg: func(c *Config) {
				c.Static.Index = `sub\index.html`
			},
			expectedErr: ErrInvalidIndex,
		},
		"empty index": {
			cfg: func(c *Config) {
				c.Static.Index = ""
			},
			expectedErr: ErrInvalidIndex,
		},
		"dot dot index": {
			cfg: func(c *Config) {
				c.Static.Index = ".."
			},
			expectedErr: ErrInvalidIndex,
		},
		"negative cache max-age disables cache headers": {
			cfg: func(c *Config) {
				c.Static.CacheMaxAge = -1
			},
		},
		"negative root cache size": {
			cfg: func(c *Config) {
				c.Static.RootCacheSize = -1
			},
			expectedErr: ErrInvalidRootCacheSize,
		},
		"negative max conns": {
			cfg: func(c *Config) {
				c.General.MaxConns = -1
			},
			expectedErr: ErrInvalidMaxConns,
		},
		"relative status path": {
			cfg: func(c *Config) {
				c.General.StatusPath = "-/healthcheck"
			},
			expectedErr: ErrInvalidStatusPath,
		},
		"unknown log format": {
			cfg: func(c *Config) {
				c.Log.Format = "xml"
			},
			expectedErr: ErrInvalidLogFormat,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := validConfig()
			tt.cfg(cfg)

			err := validateConfig(cfg, tt.namespaces)
			if tt.expectedErr == nil {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

func TestConfigValidateReportsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Listeners = Listeners{}
	cfg.Static.Index = "a/b"
	cfg.Log.Format = "xml"

	err := validateConfig(cfg, nil)

	require.ErrorIs(t, err, ErrNoListener)
	require.ErrorIs(t, err, ErrInvalidIndex)
	require.ErrorIs(t, err, ErrInvalidLogFormat)
}
