// Package metrics provides the centralized Prometheus metrics registry for
// the artwork browser. All metrics are defined in their respective packages
// (artic, cache, browser) to maintain modularity and avoid circular
// dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the artwork browser.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Request Metrics (pkg/artic):
//   - artic_requests_total{endpoint, status} (Counter): Total requests by endpoint and HTTP status
//   - artic_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint
//   - artic_errors_total{class} (Counter): Errors by class (client, server, network)
//
// Cache Metrics (pkg/cache):
//   - artic_cache_hits_total{layer="redis"} (Counter): Cache hits by layer
//   - artic_cache_misses_total (Counter): Cache misses
//   - artic_cache_size_bytes{layer="redis"} (Gauge): Current cache size in bytes
//   - artic_304_responses_total (Counter): 304 Not Modified responses
//   - artic_conditional_requests_total (Counter): Conditional requests sent with If-None-Match
//   - artic_cache_errors_total{operation} (Counter): Cache operation errors
//
// Browser Metrics (pkg/browser):
//   - browser_pages_loaded_total (Counter): Pages loaded into the browser
//   - browser_load_failures_total (Counter): Failed page loads
//   - browser_bulk_select_total{outcome} (Counter): Bulk selections by outcome
//     (ok, invalid, exceeds_total, aborted)
//   - browser_submits_total{outcome} (Counter): Submits by outcome (ok, empty)
//   - browser_selection_size (Gauge): Current selection set size
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(artic_cache_hits_total[5m])) /
//   (sum(rate(artic_cache_hits_total[5m])) + sum(rate(artic_cache_misses_total[5m])))
//
//   # Request Error Rate
//   rate(artic_errors_total[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(artic_request_duration_seconds_bucket[5m]))
//
//   # Bulk Select Abort Rate
//   rate(browser_bulk_select_total{outcome="aborted"}[5m])
