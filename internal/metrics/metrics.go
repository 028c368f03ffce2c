// Package metrics exposes Prometheus metrics for the ledger service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tabsplit"

// Metrics holds the collectors and the registry they are registered with.
// Each instance uses its own registry so tests can create as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	rpcRequests *prometheus.CounterVec
	rpcDuration *prometheus.HistogramVec

	participants prometheus.Gauge
	expenses     prometheus.Gauge
	settlements  prometheus.Gauge
}

// New creates and registers all collectors, including the Go runtime and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		rpcRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "RPC calls handled, by procedure and result code.",
		}, []string{"procedure", "code"}),
		rpcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "RPC handling latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
		participants: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "participants",
			Help:      "Participants currently in the ledger.",
		}),
		expenses: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "expenses",
			Help:      "Expenses currently in the ledger.",
		}),
		settlements: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pending_settlements",
			Help:      "Settlement transfers needed to zero out current balances.",
		}),
	}

	m.registry.MustRegister(
		m.rpcRequests,
		m.rpcDuration,
		m.participants,
		m.expenses,
		m.settlements,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveRPC records one finished RPC. code is "ok" or a connect code name.
func (m *Metrics) ObserveRPC(procedure, code string, elapsed time.Duration) {
	m.rpcRequests.WithLabelValues(procedure, code).Inc()
	m.rpcDuration.WithLabelValues(procedure).Observe(elapsed.Seconds())
}

// SetLedgerSize updates the ledger gauges.
func (m *Metrics) SetLedgerSize(participants, expenses, settlements int) {
	m.participants.Set(float64(participants))
	m.expenses.Set(float64(expenses))
	m.settlements.Set(float64(settlements))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
