package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeCreated    = "created"
	OutcomeInvalid    = "invalid"
	OutcomeReference  = "reference_missing"
	OutcomeDuplicate  = "duplicate"
	OutcomeRaceCaught = "duplicate_key"
	OutcomeFailed     = "persistence_failure"
)

// InsertMetrics tracks insert gate outcomes and the cost of duplicate scans.
type InsertMetrics struct {
	outcomes *prometheus.CounterVec
	peerScan *prometheus.HistogramVec
	lockWait *prometheus.HistogramVec
}

func NewInsertMetrics(reg prometheus.Registerer, cfg Config) *InsertMetrics {
	labels := constLabels(cfg)
	m := &InsertMetrics{
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "ynmops_insert_gate_total",
			Help:        "Insert gate outcomes by entity.",
			ConstLabels: labels,
		}, []string{"entity", "outcome"}),
		peerScan: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "ynmops_duplicate_peer_scan_size",
			Help:        "Existing records compared per create.",
			Buckets:     prometheus.ExponentialBuckets(1, 4, 8),
			ConstLabels: labels,
		}, []string{"entity"}),
		lockWait: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "ynmops_insert_lock_wait_seconds",
			Help:        "Time spent waiting for the per-entity insert lock.",
			Buckets:     []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			ConstLabels: labels,
		}, []string{"entity"}),
	}
	reg.MustRegister(m.outcomes, m.peerScan, m.lockWait)
	return m
}

func (m *InsertMetrics) IncOutcome(entity, outcome string) {
	if m == nil {
		return
	}
	m.outcomes.WithLabelValues(entity, outcome).Inc()
}

func (m *InsertMetrics) ObservePeerScan(entity string, peers int) {
	if m == nil {
		return
	}
	m.peerScan.WithLabelValues(entity).Observe(float64(peers))
}

func (m *InsertMetrics) ObserveLockWait(entity string, d time.Duration) {
	if m == nil {
		return
	}
	m.lockWait.WithLabelValues(entity).Observe(d.Seconds())
}
