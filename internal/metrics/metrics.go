package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the application's Prometheus collectors
type Metrics struct {
	registry *prometheus.Registry

	Signups          *prometheus.CounterVec
	LoginFailures    prometheus.Counter
	BookingsCreated  prometheus.Counter
	BookingsAccepted prometheus.Counter
	AcceptConflicts  prometheus.Counter
	RequestDuration  *prometheus.HistogramVec
}

// New registers all collectors on a fresh registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		Signups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "kaamsetu_signups_total",
			Help: "Accounts created, by role",
		}, []string{"role"}),

		LoginFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "kaamsetu_login_failures_total",
			Help: "Rejected login attempts",
		}),

		BookingsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "kaamsetu_bookings_created_total",
			Help: "Bookings created in Pending state",
		}),

		BookingsAccepted: f.NewCounter(prometheus.CounterOpts{
			Name: "kaamsetu_bookings_accepted_total",
			Help: "Bookings moved to On The Way by a provider",
		}),

		AcceptConflicts: f.NewCounter(prometheus.CounterOpts{
			Name: "kaamsetu_booking_accept_conflicts_total",
			Help: "Accept attempts on bookings that were no longer Pending",
		}),

		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kaamsetu_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
