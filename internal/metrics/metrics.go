package metrics

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HashInFlight is the number of password hash computations currently running.
	HashInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "password_hash_in_flight",
			Help: "Number of password hash computations currently running",
		},
	)

	// BookingsTotal counts booking attempts by outcome (created, overlap, rejected).
	BookingsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookings_total",
			Help: "Total number of booking attempts by outcome",
		},
		[]string{"outcome"},
	)

	// AuthFailuresTotal counts rejected authentication attempts by reason.
	AuthFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_failures_total",
			Help: "Total number of rejected authentication attempts by reason",
		},
		[]string{"reason"},
	)

	// MaintenanceRemovedTotal counts rows or entries removed by scheduled jobs.
	MaintenanceRemovedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maintenance_removed_total",
			Help: "Total number of entries removed by scheduled maintenance jobs",
		},
		[]string{"job"},
	)
)

var (
	numericPathSegment = regexp.MustCompile(`/[0-9]+(/|$)`)
	initOnce           sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal, HashInFlight, BookingsTotal, AuthFailuresTotal, MaintenanceRemovedTotal)
	})
}

// NormalizePath reduces cardinality by replacing numeric path segments with {id}.
// E.g. /api/v1/places/123 -> /api/v1/places/{id}.
func NormalizePath(path string) string {
	return numericPathSegment.ReplaceAllString(path, "/{id}$1")
}

// RecordRequest records duration and count for an HTTP request. Call from middleware with method, path, statusCode, duration.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

// IncBookings increments the booking counter for outcome.
func IncBookings(outcome string) {
	BookingsTotal.WithLabelValues(outcome).Inc()
}

// IncAuthFailures increments the authentication failure counter for reason.
func IncAuthFailures(reason string) {
	AuthFailuresTotal.WithLabelValues(reason).Inc()
}

// AddMaintenanceRemoved adds n to the removed counter for job.
func AddMaintenanceRemoved(job string, n int) {
	MaintenanceRemovedTotal.WithLabelValues(job).Add(float64(n))
}
