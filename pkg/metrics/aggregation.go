package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of a full multi-platform search, cache hits included
	SearchLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "pricekart_search_latency_seconds",
		Help:    "Latency of aggregated platform searches",
		Buckets: prometheus.DefBuckets,
	})

	SearchRequests = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pricekart_search_requests_total",
		Help: "Total aggregated search requests served",
	})

	CacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pricekart_cache_hits_total",
		Help: "Response cache hits",
	})

	CacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pricekart_cache_misses_total",
		Help: "Response cache misses",
	})

	PlatformListings = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pricekart_platform_listings_total",
		Help: "Listings contributed per upstream platform",
	}, []string{"platform"})

	PreloadScheduled = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pricekart_preload_scheduled_total",
		Help: "Image preloads scheduled per priority tier",
	}, []string{"tier"})

	PreloadFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pricekart_preload_failures_total",
		Help: "Image preload fetches that failed (swallowed)",
	})
)

func Init() {
	prometheus.MustRegister(
		SearchLatency,
		SearchRequests,
		CacheHits,
		CacheMisses,
		PlatformListings,
		PreloadScheduled,
		PreloadFailures,
	)
}
