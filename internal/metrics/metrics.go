// Package metrics provides Prometheus metrics for the dashboard server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the server's collectors, registered on one registry.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	pagesRewritten      *prometheus.CounterVec
	assetsInjected      *prometheus.CounterVec
	assetsMissing       *prometheus.CounterVec
	rewriteErrors       prometheus.Counter
}

// New creates Metrics on a fresh registry that also exposes Go runtime
// and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dashassets_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dashassets_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		pagesRewritten: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dashassets_pages_rewritten_total",
				Help: "HTML pages passed through the asset loader",
			},
			[]string{"page"},
		),
		assetsInjected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dashassets_assets_injected_total",
				Help: "Script and stylesheet elements appended to page heads",
			},
			[]string{"feature", "kind"},
		),
		assetsMissing: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dashassets_assets_missing_total",
				Help: "Injected asset URLs that did not resolve in the static directory",
			},
			[]string{"page"},
		),
		rewriteErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "dashassets_rewrite_errors_total",
				Help: "Pages served unmodified because injection failed",
			},
		),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the registry for tests and custom exporters.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// RecordHTTPRequest records an HTTP request.
func (m *Metrics) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordPageRewritten records one rewritten page.
func (m *Metrics) RecordPageRewritten(page string) {
	m.pagesRewritten.WithLabelValues(page).Inc()
}

// RecordAssetInjected records one appended element.
func (m *Metrics) RecordAssetInjected(feature, kind string) {
	m.assetsInjected.WithLabelValues(feature, kind).Inc()
}

// RecordAssetsMissing records n unresolved asset URLs for page.
func (m *Metrics) RecordAssetsMissing(page string, n int) {
	m.assetsMissing.WithLabelValues(page).Add(float64(n))
}

// RecordRewriteError records a page served without injection.
func (m *Metrics) RecordRewriteError() {
	m.rewriteErrors.Inc()
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// Middleware records request metrics under a fixed route label so that
// arbitrary paths do not explode label cardinality.
func (m *Metrics) Middleware(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)
		m.RecordHTTPRequest(r.Method, route, rw.statusCode, time.Since(start))
	})
}
