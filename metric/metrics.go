package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "wdi"

// Metrics contains the instrumentation of the command server and the dataset store.
type Metrics struct {
	registry *prometheus.Registry

	// Server metrics
	SessionsActive   prometheus.Gauge
	SessionsAccepted prometheus.Counter
	AcceptErrors     prometheus.Counter
	Commands         *prometheus.CounterVec
	CommandDuration  *prometheus.HistogramVec

	// Store metrics
	DatasetRecords prometheus.Gauge
	DatasetLoads   *prometheus.CounterVec
}

// NewMetrics creates all the metrics and registers them in their own registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		SessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "sessions_active",
			Help:      "Number of client connections currently open",
		}),

		SessionsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "sessions_accepted_total",
			Help:      "Total number of client connections accepted",
		}),

		AcceptErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "accept_errors_total",
			Help:      "Total number of failed accepts while not shutting down",
		}),

		Commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "commands_total",
			Help:      "Total number of commands executed, by verb",
		}, []string{"verb"}),

		CommandDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "command_duration_seconds",
			Help:      "Command execution duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}, []string{"verb"}),

		DatasetRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "records",
			Help:      "Number of indicator records currently loaded",
		}),

		DatasetLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "loads_total",
			Help:      "Total number of dataset loads, by status",
		}, []string{"status"}),
	}

	m.registry.MustRegister(
		m.SessionsActive,
		m.SessionsAccepted,
		m.AcceptErrors,
		m.Commands,
		m.CommandDuration,
		m.DatasetRecords,
		m.DatasetLoads,
		collectors.NewGoCollector(),
	)
	return m
}

// Handler serves the registered metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, eg. to gather metrics in tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
