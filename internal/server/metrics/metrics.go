// Package metrics exposes Prometheus collectors for the auth server and an
// HTTP endpoint serving them.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the server collectors on a private registry.
type Metrics struct {
	registry        *prometheus.Registry
	rpcRequests     *prometheus.CounterVec
	rpcDuration     *prometheus.HistogramVec
	registrations   *prometheus.CounterVec
	authentications *prometheus.CounterVec
}

// New creates the collectors and registers them, together with the Go and
// process collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		rpcRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authkeeper_grpc_requests_total",
				Help: "Total number of gRPC requests by method and status code",
			},
			[]string{"method", "code"},
		),
		rpcDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "authkeeper_grpc_request_duration_seconds",
				Help:    "gRPC request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		registrations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authkeeper_registrations_total",
				Help: "Total number of registration attempts by outcome",
			},
			[]string{"outcome"},
		),
		authentications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authkeeper_authentications_total",
				Help: "Total number of authentication attempts by outcome",
			},
			[]string{"outcome"},
		),
	}

	m.registry.MustRegister(collectors.NewGoCollector())
	m.registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m.registry.MustRegister(m.rpcRequests, m.rpcDuration, m.registrations, m.authentications)

	return m
}

// Registry returns the registry backing /metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveRPC records one finished unary call.
func (m *Metrics) ObserveRPC(method, code string, d time.Duration) {
	m.rpcRequests.WithLabelValues(method, code).Inc()
	m.rpcDuration.WithLabelValues(method).Observe(d.Seconds())
}

func (m *Metrics) Registration(outcome string) {
	m.registrations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Authentication(outcome string) {
	m.authentications.WithLabelValues(outcome).Inc()
}
