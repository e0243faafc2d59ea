package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// VFSOperations metric for VFS operations (lstat, readlink, open)
	VFSOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gitlab_static_vfs_operations_total",
			Help: "The number of VFS operations",
		},
		[]string{"vfs_name", "operation", "success"},
	)

	// ServedFileSize is the size of files served by the static resolver
	ServedFileSize = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "gitlab_static_served_file_size_bytes",
		Help:    "The size in bytes of files served by the static resolver",
		Buckets: prometheus.ExponentialBuckets(1024, 4, 10),
	})

	// StaticResponses counts the responses produced by the static resolver
	// partitioned by status code
	StaticResponses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gitlab_static_responses_total",
			Help: "The number of responses produced by the static resolver",
		},
		[]string{"code"},
	)

	// RootCachedEntries is the number of VFS roots held by the root cache
	RootCachedEntries = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "gitlab_static_root_cached_entries",
		Help: "The number of VFS roots cached",
	}, []string{"op"})

	// RootCacheRequests is the number of root cache lookups partitioned by hit/miss/error
	RootCacheRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gitlab_static_root_cache_requests",
		Help: "The number of VFS root cache lookups",
	}, []string{"op", "cache"})

	// LimitListenerMaxConns is the maximum number of connections served at once
	LimitListenerMaxConns = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "gitlab_static_limit_listener_max_conns",
		Help: "The maximum number of concurrent connections allowed, per -max-conns",
	})

	// LimitListenerConcurrentConns is the number of connections currently served
	LimitListenerConcurrentConns = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "gitlab_static_limit_listener_concurrent_conns",
		Help: "The number of concurrent connections",
	})

	// LimitListenerWaitingConns is the number of connections waiting for a free slot
	LimitListenerWaitingConns = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "gitlab_static_limit_listener_waiting_conns",
		Help: "The number of connections waiting for a free slot",
	})

	// MountsConfigured is the number of mount points served
	MountsConfigured = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "gitlab_static_mounts_configured",
		Help: "The number of mount points served by this daemon",
	})
)

// MustRegister collectors with the Prometheus client
func MustRegister() {
	prometheus.MustRegister(
		VFSOperations,
		ServedFileSize,
		StaticResponses,
		RootCachedEntries,
		RootCacheRequests,
		LimitListenerMaxConns,
		LimitListenerConcurrentConns,
		LimitListenerWaitingConns,
		MountsConfigured,
	)
}
