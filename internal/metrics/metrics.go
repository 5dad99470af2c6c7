package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Consumption result labels.
const (
	ResultOK           = "ok"
	ResultInvalid      = "invalid"
	ResultStorageError = "storage_error"
)

// Skip reason labels.
const (
	SkipNoRegistration = "no_registration"
	SkipNotSubscribed  = "not_subscribed"
)

// Metrics holds the relay's Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	EventsConsumed      *prometheus.CounterVec
	DeliveriesAttempted prometheus.Counter
	DeliveriesSucceeded prometheus.Counter
	DeliveriesFailed    prometheus.Counter
	DeliveriesSkipped   *prometheus.CounterVec
	AttemptDuration     prometheus.Histogram
}

// New creates and registers the relay metric set on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		EventsConsumed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "relay_events_consumed_total",
			Help: "Payment events consumed from the event log, by topic and result.",
		}, []string{"topic", "result"}),
		DeliveriesAttempted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "relay_delivery_attempts_total",
			Help: "Individual webhook HTTP attempts issued.",
		}),
		DeliveriesSucceeded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "relay_deliveries_succeeded_total",
			Help: "Webhook deliveries that received a 2xx response.",
		}),
		DeliveriesFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "relay_deliveries_failed_total",
			Help: "Webhook deliveries that exhausted the attempt budget.",
		}),
		DeliveriesSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "relay_deliveries_skipped_total",
			Help: "Events persisted without delivery, by reason.",
		}, []string{"reason"}),
		AttemptDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "relay_delivery_attempt_seconds",
			Help:    "Latency of individual webhook HTTP attempts.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}

	reg.MustRegister(
		m.EventsConsumed,
		m.DeliveriesAttempted,
		m.DeliveriesSucceeded,
		m.DeliveriesFailed,
		m.DeliveriesSkipped,
		m.AttemptDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Handler returns the /metrics HTTP handler for this metric set.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
