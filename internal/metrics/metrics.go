// README: Prometheus collectors for HTTP traffic and the metered integrations.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated registry served at /metrics.
	Registry = prometheus.NewRegistry()

	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// MapsCalls counts calls to the mapping provider by operation and outcome.
	MapsCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "maps_calls_total", Help: "Mapping provider calls by operation and outcome."},
		[]string{"op", "outcome"},
	)
	// GeocodeCache counts geocode cache lookups by result (hit, miss, error).
	GeocodeCache = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "geocode_cache_lookups_total", Help: "Geocode cache lookups by result."},
		[]string{"result"},
	)
	// EmailsSent counts transactional emails by kind (customer, business) and outcome.
	EmailsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "emails_sent_total", Help: "Transactional emails by kind and outcome."},
		[]string{"kind", "outcome"},
	)
	// QuotesCalculated counts quotes by van size.
	QuotesCalculated = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "quotes_calculated_total", Help: "Quotes calculated by van size."},
		[]string{"van_size"},
	)
	// LiveSessions tracks open live calculator sessions.
	LiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "live_sessions", Help: "Open live calculator sessions."},
	)
)

var regOnce sync.Once

// Register adds all collectors to Registry. Safe to call more than once.
func Register() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests, HTTPDuration)
		Registry.MustRegister(MapsCalls, GeocodeCache, EmailsSent, QuotesCalculated, LiveSessions)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}
