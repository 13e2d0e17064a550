// Package metrics exposes prometheus counters for the sync core.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type Metrics struct {
	SubmissionsTotal *prometheus.CounterVec
	SyncRunsTotal    prometheus.Counter
	SyncedLogsTotal  prometheus.Counter
	SyncHaltsTotal   *prometheus.CounterVec
	QueueDepth       prometheus.Gauge
}

// New registers the core metrics on the given registry.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		SubmissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "metas_log_submissions_total",
			Help: "Log submissions by outcome (sent, queued).",
		}, []string{"status"}),
		SyncRunsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "metas_sync_runs_total",
			Help: "Queue drain attempts.",
		}),
		SyncedLogsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "metas_synced_logs_total",
			Help: "Pending logs confirmed delivered during drains.",
		}),
		SyncHaltsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "metas_sync_halts_total",
			Help: "Drain runs halted early, by failure kind.",
		}, []string{"kind"}),
		QueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "metas_pending_queue_depth",
			Help: "Pending records observed at the start of the last drain.",
		}),
	}
	reg.MustRegister(
		m.SubmissionsTotal,
		m.SyncRunsTotal,
		m.SyncedLogsTotal,
		m.SyncHaltsTotal,
		m.QueueDepth,
	)
	return m
}

// NewRegistry builds the application's prometheus registry with the
// standard process and Go collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}
