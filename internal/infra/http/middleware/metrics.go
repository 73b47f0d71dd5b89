package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	checkoutSyncRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_sync_runs_total",
			Help: "Total number of abandoned checkout resyncs",
		},
		[]string{"result"},
	)

	checkoutSyncFetched = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "checkout_sync_fetched_total",
			Help: "Checkouts fetched from the commerce platform",
		},
	)

	checkoutSyncFailedRows = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "checkout_sync_failed_rows_total",
			Help: "Checkouts that could not be upserted",
		},
	)

	checkoutSyncDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "checkout_sync_duration_seconds",
			Help:    "Duration of abandoned checkout resyncs",
			Buckets: prometheus.DefBuckets,
		},
	)

	outreachDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outreach_deliveries_total",
			Help: "Outreach messages handled by the queue consumer",
		},
		[]string{"channel", "status"},
	)

	integrationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "integration_errors_total",
			Help: "Total number of integration errors",
		},
		[]string{"service"},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)
		path := routePattern(r)

		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// routePattern keeps ids out of the path label. Requests that match no
// route share one label.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return unmatchedRoute
}

const unmatchedRoute = "unmatched"

func RecordIntegrationError(service string) {
	integrationErrors.WithLabelValues(service).Inc()
}

// SyncMetrics records checkout resync outcomes.
type SyncMetrics struct{}

func (SyncMetrics) ObserveSync(fetched, failed int, err error, took time.Duration) {
	checkoutSyncDuration.Observe(took.Seconds())
	if err != nil {
		checkoutSyncRuns.WithLabelValues("error").Inc()
		RecordIntegrationError("shopify")
		return
	}
	checkoutSyncRuns.WithLabelValues("ok").Inc()
	checkoutSyncFetched.Add(float64(fetched))
	checkoutSyncFailedRows.Add(float64(failed))
}

// DeliveryMetrics records outreach consumer outcomes.
type DeliveryMetrics struct{}

func (DeliveryMetrics) ObserveDelivery(channel string, err error) {
	if err != nil {
		outreachDeliveries.WithLabelValues(channel, "failed").Inc()
		RecordIntegrationError(channel)
		return
	}
	outreachDeliveries.WithLabelValues(channel, "delivered").Inc()
}
