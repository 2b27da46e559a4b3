package providers

import (
	"time"

	"ghexplorer/internal/structures"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	ObserveUpstreamDuration(duration time.Duration)
	IncListFetches(resource string)
	IncListFetchErrors(resource, code string)
	IncListCoalesced(resource string)
	IncStorageFailures(op string)
}

type MetricsProvider struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	cacheHits        prometheus.Counter
	cacheMisses      prometheus.Counter
	upstreamDuration prometheus.Histogram
	listFetches      *prometheus.CounterVec
	listFetchErrors  *prometheus.CounterVec
	listCoalesced    *prometheus.CounterVec
	storageFailures  *prometheus.CounterVec
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) ObserveUpstreamDuration(duration time.Duration) {
	m.upstreamDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) IncListFetches(resource string) {
	m.listFetches.WithLabelValues(resource).Inc()
}

func (m *MetricsProvider) IncListFetchErrors(resource, code string) {
	m.listFetchErrors.WithLabelValues(resource, code).Inc()
}

func (m *MetricsProvider) IncListCoalesced(resource string) {
	m.listCoalesced.WithLabelValues(resource).Inc()
}

func (m *MetricsProvider) IncStorageFailures(op string) {
	m.storageFailures.WithLabelValues(op).Inc()
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ghx_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ghx_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ghx_response_cache_hits_total",
			Help: "Total number of upstream response cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ghx_response_cache_misses_total",
			Help: "Total number of upstream response cache misses",
		}),

		upstreamDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "ghx_upstream_duration_seconds",
			Help:    "Duration of GitHub API calls in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		listFetches: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ghx_list_fetches_total",
			Help: "Total number of page fetches issued by list caches",
		}, []string{"resource"}),

		listFetchErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ghx_list_fetch_errors_total",
			Help: "Total number of failed page fetches by error code",
		}, []string{"resource", "code"}),

		listCoalesced: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ghx_list_coalesced_total",
			Help: "Total number of fetch requests joined to an in-flight fetch",
		}, []string{"resource"}),

		storageFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ghx_storage_failures_total",
			Help: "Total number of absorbed storage failures by operation",
		}, []string{"op"}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) ObserveUpstreamDuration(_ time.Duration)          {}
func (n *noopMetrics) IncListFetches(_ string)                          {}
func (n *noopMetrics) IncListFetchErrors(_, _ string)                   {}
func (n *noopMetrics) IncListCoalesced(_ string)                        {}
func (n *noopMetrics) IncStorageFailures(_ string)                      {}

// NewNoopMetrics returns a metrics provider that discards everything.
func NewNoopMetrics() MetricsProviderInterface {
	return &noopMetrics{}
}
