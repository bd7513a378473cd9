package server

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/civicdata/mdm/pkg/resolve"
)

// metrics holds the Prometheus collectors for the serving layer. Load
// gauges are set once from the resolution stats; only the request counter
// moves afterward.
type metrics struct {
	registry *prometheus.Registry

	goldenRecords     prometheus.Gauge
	identitiesSkipped prometheus.Gauge
	recordsDropped    prometheus.Gauge
	conflictsResolved prometheus.Gauge
	sourceRecords     *prometheus.GaugeVec

	httpRequests *prometheus.CounterVec
}

// newMetrics creates the collectors and seeds the load gauges.
func newMetrics(stats resolve.Stats) *metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	m := &metrics{
		registry: reg,
		goldenRecords: factory.NewGauge(prometheus.GaugeOpts{
			Name: "mdm_golden_records",
			Help: "Number of golden records in the resolution store.",
		}),
		identitiesSkipped: factory.NewGauge(prometheus.GaugeOpts{
			Name: "mdm_identities_skipped",
			Help: "Identities skipped for insufficient data during the load pass.",
		}),
		recordsDropped: factory.NewGauge(prometheus.GaugeOpts{
			Name: "mdm_records_dropped",
			Help: "Source records discarded for missing identity keys.",
		}),
		conflictsResolved: factory.NewGauge(prometheus.GaugeOpts{
			Name: "mdm_conflicts_resolved",
			Help: "Shared fields decided by majority vote during the load pass.",
		}),
		sourceRecords: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "mdm_source_records",
			Help: "Records accepted per source during the load pass.",
		}, []string{"source"}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mdm_http_requests_total",
			Help: "HTTP requests served, by method and status code.",
		}, []string{"method", "status"}),
	}

	m.goldenRecords.Set(float64(stats.GoldenRecords))
	m.identitiesSkipped.Set(float64(stats.IdentitiesSkipped))
	m.recordsDropped.Set(float64(stats.RecordsDropped))
	m.conflictsResolved.Set(float64(stats.ConflictsResolved))
	for source, count := range stats.RecordsSeen {
		m.sourceRecords.WithLabelValues(source).Set(float64(count))
	}

	return m
}

// handler returns the /metrics endpoint handler.
func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// instrument counts requests by method and status code.
func (m *metrics) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wrapped := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		m.httpRequests.WithLabelValues(r.Method, strconv.Itoa(wrapped.statusCode)).Inc()
	})
}

// statusRecorder wraps http.ResponseWriter to capture the status code.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.statusCode = code
	sr.ResponseWriter.WriteHeader(code)
}
