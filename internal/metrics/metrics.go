// Package metrics exposes Prometheus instruments for the relay, the lookups
// and the outbound HTTP clients.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the address relay Prometheus metrics.
type Metrics struct {
	WebhooksTotal         *prometheus.CounterVec
	LookupsTotal          *prometheus.CounterVec
	LookupDuration        *prometheus.HistogramVec
	LookupsDiscarded      *prometheus.CounterVec
	SubmissionsTotal      *prometheus.CounterVec
	ClientRequestsTotal   *prometheus.CounterVec
	ClientRequestDuration *prometheus.HistogramVec
	ClientErrorsTotal     *prometheus.CounterVec
}

// NewMetrics registers and returns the metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		WebhooksTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "address_relay_webhooks_total",
			Help: "Inbound webhook payloads by outcome.",
		}, []string{"outcome"}),
		LookupsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "address_relay_lookups_total",
			Help: "Location and suggestion lookups by kind and outcome.",
		}, []string{"kind", "outcome"}),
		LookupDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "address_relay_lookup_duration_seconds",
			Help:    "Lookup duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"}),
		LookupsDiscarded: f.NewCounterVec(prometheus.CounterOpts{
			Name: "address_relay_lookups_discarded_total",
			Help: "Lookup results dropped because a newer lookup superseded them.",
		}, []string{"kind"}),
		SubmissionsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "address_relay_submissions_total",
			Help: "Form submissions by status.",
		}, []string{"status"}),
		ClientRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "address_relay_client_requests_total",
			Help: "Outbound HTTP requests by client, method and status.",
		}, []string{"client", "method", "status"}),
		ClientRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "address_relay_client_request_duration_seconds",
			Help:    "Outbound HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"client", "method"}),
		ClientErrorsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "address_relay_client_errors_total",
			Help: "Outbound HTTP requests that failed or returned an error status.",
		}, []string{"client", "method"}),
	}
}

// RecordWebhook counts an inbound webhook.
func (m *Metrics) RecordWebhook(outcome string) {
	if m == nil {
		return
	}
	m.WebhooksTotal.WithLabelValues(outcome).Inc()
}

// RecordLookup records one location or suggestion lookup.
func (m *Metrics) RecordLookup(kind string, success bool, duration time.Duration) {
	if m == nil {
		return
	}
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	m.LookupsTotal.WithLabelValues(kind, outcome).Inc()
	m.LookupDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordDiscarded counts a lookup result that arrived after being superseded.
func (m *Metrics) RecordDiscarded(kind string) {
	if m == nil {
		return
	}
	m.LookupsDiscarded.WithLabelValues(kind).Inc()
}

// RecordSubmission counts a submission attempt by its resulting status.
func (m *Metrics) RecordSubmission(status string) {
	if m == nil {
		return
	}
	m.SubmissionsTotal.WithLabelValues(status).Inc()
}

// RecordRequest implements the HTTP client metrics collector.
func (m *Metrics) RecordRequest(client, method string, statusCode int, duration time.Duration) {
	if m == nil {
		return
	}
	m.ClientRequestsTotal.WithLabelValues(client, method, strconv.Itoa(statusCode)).Inc()
	m.ClientRequestDuration.WithLabelValues(client, method).Observe(duration.Seconds())
}

// RecordRequestError implements the HTTP client metrics collector.
func (m *Metrics) RecordRequestError(client, method string) {
	if m == nil {
		return
	}
	m.ClientErrorsTotal.WithLabelValues(client, method).Inc()
}
