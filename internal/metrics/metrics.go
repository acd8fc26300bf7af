// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "repairshop",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "repairshop",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "repairshop",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)

	repairTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "repairshop",
			Subsystem: "repairs",
			Name:      "status_changes_total",
			Help:      "Repair tickets entering each status, creations included.",
		},
		[]string{"status"},
	)

	invoicesIssued = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "repairshop",
			Subsystem: "invoices",
			Name:      "issued_total",
			Help:      "Invoices issued, by initial payment status.",
		},
		[]string{"payment_status"},
	)

	pushSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "repairshop",
			Subsystem: "push",
			Name:      "notifications_total",
			Help:      "Web push deliveries by outcome.",
		},
		[]string{"result"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		repairTransitions,
		invoicesIssued,
		pushSent,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RequestStarted tracks an in-flight request; call the returned func when done.
func RequestStarted() func() {
	httpInFlight.Inc()
	return httpInFlight.Dec
}

// RecordRequest records one handled HTTP request. route should be the route
// template, not the raw path, to keep label cardinality bounded.
func RecordRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	method = strings.ToUpper(method)
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordRepairStatus counts a ticket entering status.
func RecordRepairStatus(status string) {
	repairTransitions.WithLabelValues(status).Inc()
}

// RecordInvoiceIssued counts an issued invoice.
func RecordInvoiceIssued(paymentStatus string) {
	invoicesIssued.WithLabelValues(paymentStatus).Inc()
}

// RecordPush counts a push delivery attempt. result is "sent", "expired" or
// "failed".
func RecordPush(result string) {
	pushSent.WithLabelValues(result).Inc()
}
