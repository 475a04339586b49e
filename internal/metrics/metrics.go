// Package metrics exposes question bank activity as Prometheus metrics.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JonMunkholm/qbank/internal/core"
)

const namespace = "qbank"

// Metrics implements core.Recorder on a dedicated registry.
type Metrics struct {
	registry *prometheus.Registry

	imports        *prometheus.CounterVec
	importFailures *prometheus.CounterVec
	rowsMerged     *prometheus.CounterVec
	rowsSkipped    prometheus.Counter
	importDuration prometheus.Histogram
	saves          *prometheus.CounterVec
	storeSize      prometheus.Gauge
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
}

// New registers all collectors, plus the Go and process collectors, on a
// fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		imports: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "import",
			Name:      "files_total",
			Help:      "Question files imported, by outcome",
		}, []string{"outcome"}),
		importFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "import",
			Name:      "failures_total",
			Help:      "Imports that merged nothing, by reason",
		}, []string{"reason"}),
		rowsMerged: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "import",
			Name:      "rows_merged_total",
			Help:      "Rows merged into the store, by effect",
		}, []string{"effect"}),
		rowsSkipped: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "import",
			Name:      "rows_skipped_total",
			Help:      "Rows skipped for lacking an identifier",
		}),
		importDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "import",
			Name:      "duration_seconds",
			Help:      "Time from receiving a file to finishing its merge",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		saves: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "form",
			Name:      "saves_total",
			Help:      "Form saves by mode and result",
		}, []string{"mode", "result"}),
		storeSize: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "records",
			Help:      "Records currently held in the store",
		}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ImportCompleted(stats core.MergeStats, skipped int, d time.Duration) {
	m.imports.WithLabelValues("merged").Inc()
	m.rowsMerged.WithLabelValues("inserted").Add(float64(stats.Inserted))
	m.rowsMerged.WithLabelValues("updated").Add(float64(stats.Updated))
	m.rowsSkipped.Add(float64(skipped))
	m.importDuration.Observe(d.Seconds())
}

func (m *Metrics) ImportFailed(reason string) {
	m.imports.WithLabelValues("failed").Inc()
	m.importFailures.WithLabelValues(reason).Inc()
}

func (m *Metrics) SaveCompleted(mode core.Mode, err error) {
	m.saves.WithLabelValues(string(mode), saveResult(err)).Inc()
}

func (m *Metrics) StoreSize(n int) {
	m.storeSize.Set(float64(n))
}

func saveResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, core.ErrFormLocked):
		return "locked"
	case errors.Is(err, core.ErrDuplicateIdentifier):
		return "duplicate"
	case errors.Is(err, core.ErrMissingIdentifier):
		return "missing_id"
	case errors.Is(err, core.ErrRecordNotFound), errors.Is(err, core.ErrNoEditTarget):
		return "not_found"
	default:
		return "error"
	}
}

// Middleware counts requests by chi route pattern so path parameters do not
// explode label cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

var _ core.Recorder = (*Metrics)(nil)
