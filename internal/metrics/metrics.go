// Package metrics holds the relay's Prometheus instruments.
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

// Metrics holds all Prometheus metrics for the relay.
type Metrics struct {
	// Webhook metrics
	WebhookEventsTotal *prometheus.CounterVec

	// Publishing metrics
	PagesPublishedTotal *prometheus.CounterVec
	SinkLatencySeconds  *prometheus.HistogramVec

	// HTTP metrics
	RequestsTotal *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New creates a set of metrics on a fresh registry that also carries the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewWithRegisterer(reg)
}

// NewWithRegisterer creates metrics registered on reg. When reg is also a
// Gatherer (a *prometheus.Registry), Handler serves it.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	m := &Metrics{
		WebhookEventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "relay_webhook_events_total",
				Help: "Webhook deliveries by event type and outcome",
			},
			[]string{"event_type", "outcome"},
		),
		PagesPublishedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "relay_pages_published_total",
				Help: "Workspace pages created by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		SinkLatencySeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "relay_sink_latency_seconds",
				Help:    "Latency of workspace API calls",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"operation"},
		),
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "relay_http_requests_total",
				Help: "HTTP requests by route and status code",
			},
			[]string{"route", "code"},
		),
	}
	if g, ok := reg.(prometheus.Gatherer); ok {
		m.gatherer = g
	}
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m.gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// ObserveSink records the latency of a workspace call started at start.
// Safe to call on a nil *Metrics.
func (m *Metrics) ObserveSink(operation string, start time.Time) {
	if m == nil {
		return
	}
	m.SinkLatencySeconds.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// Published counts a page publication outcome. Safe on a nil *Metrics.
func (m *Metrics) Published(kind, outcome string) {
	if m == nil {
		return
	}
	m.PagesPublishedTotal.WithLabelValues(kind, outcome).Inc()
}

// Webhook counts a webhook delivery outcome. Safe on a nil *Metrics.
func (m *Metrics) Webhook(eventType, outcome string) {
	if m == nil {
		return
	}
	m.WebhookEventsTotal.WithLabelValues(eventType, outcome).Inc()
}

// Request counts an HTTP request. Safe on a nil *Metrics.
func (m *Metrics) Request(route string, code int) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(route, strconv.Itoa(code)).Inc()
}
