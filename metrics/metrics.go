// Package metrics exposes gateway counters to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Request outcomes recorded per response.
const (
	OutcomeHit         = "hit"
	OutcomeMiss        = "miss"
	OutcomeNotModified = "not_modified"
	OutcomeNotFound    = "not_found"
	OutcomeInvalidFile = "invalid_file"
	OutcomeError       = "error"
)

// Metrics holds the gateway's Prometheus collectors. A nil *Metrics is
// valid and records nothing, so instrumentation stays optional.
type Metrics struct {
	requests      *prometheus.CounterVec
	originLatency prometheus.Histogram
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gtfs_gateway",
			Name:      "requests_total",
			Help:      "Requests served, by method and cache outcome.",
		}, []string{"method", "outcome"}),
		originLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "gtfs_gateway",
			Name:      "origin_get_duration_seconds",
			Help:      "Latency of origin store reads.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.requests, m.originLatency)
	return m
}

// Request records one served request.
func (m *Metrics) Request(method, outcome string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, outcome).Inc()
}

// OriginGet records the duration of one origin store read.
func (m *Metrics) OriginGet(d time.Duration) {
	if m == nil {
		return
	}
	m.originLatency.Observe(d.Seconds())
}
