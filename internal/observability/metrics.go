// Package observability exposes Prometheus metrics for the HTTP surface and
// the analysis pipeline.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects the application's Prometheus metrics.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	analysesTotal    *prometheus.CounterVec
	filesAnalyzed    *prometheus.CounterVec
	recordsDecoded   prometheus.Counter
	recordsIgnored   prometheus.Counter
	lineErrors       prometheus.Counter
	analysisDuration prometheus.Histogram
}

// NewMetrics initializes the registry and the base metric set.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "spedlens_http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "spedlens_http_request_duration_seconds",
		Help:    "HTTP request duration per route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	analyses := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "spedlens_analyses_total",
		Help: "Completed analyses by reliability label.",
	}, []string{"reliability"})
	files := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "spedlens_files_analyzed_total",
		Help: "Files processed by detected file type.",
	}, []string{"file_type"})
	decoded := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "spedlens_records_decoded_total",
		Help: "Records successfully decoded across all files.",
	})
	ignored := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "spedlens_records_ignored_total",
		Help: "Lines skipped because their record code is not catalogued.",
	})
	lineErrors := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "spedlens_line_errors_total",
		Help: "Non-fatal per-line decoding failures.",
	})
	analysisDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "spedlens_analysis_duration_seconds",
		Help:    "End-to-end duration of one analysis.",
		Buckets: prometheus.DefBuckets,
	})
	registry.MustRegister(requests, duration, analyses, files, decoded, ignored, lineErrors, analysisDuration)
	return &Metrics{
		registry:         registry,
		handler:          promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:    requests,
		requestDuration:  duration,
		analysesTotal:    analyses,
		filesAnalyzed:    files,
		recordsDecoded:   decoded,
		recordsIgnored:   ignored,
		lineErrors:       lineErrors,
		analysisDuration: analysisDuration,
	}
}

// Handler returns the http.Handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware records request metrics for every HTTP request.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(&recorder, r)
		route := routePattern(r)
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// ObserveAnalysis records pipeline counters for one completed analysis.
func (m *Metrics) ObserveAnalysis(reliability string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.analysesTotal.WithLabelValues(reliability).Inc()
	m.analysisDuration.Observe(elapsed.Seconds())
}

// ObserveFile records per-file counters.
func (m *Metrics) ObserveFile(fileType string, decoded, ignored, errors int) {
	if m == nil {
		return
	}
	m.filesAnalyzed.WithLabelValues(fileType).Inc()
	m.recordsDecoded.Add(float64(decoded))
	m.recordsIgnored.Add(float64(ignored))
	m.lineErrors.Add(float64(errors))
}

// Registerer exposes the registry for custom metric registration.
func (m *Metrics) Registerer() prometheus.Registerer {
	if m == nil {
		return prometheus.DefaultRegisterer
	}
	return m.registry
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func routePattern(r *http.Request) string {
	if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
		if pattern := routeCtx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unknown"
}
