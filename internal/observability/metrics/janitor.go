package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

const (
	JobReasonDeadlineExceeded = "deadline_exceeded"
	JobReasonCanceled         = "canceled"
	JobReasonDBLockTimeout    = "db_lock_timeout"
	JobReasonUniqueViolation  = "unique_violation"
	JobReasonUnknown          = "unknown"
)

// JanitorMetrics captures background maintenance job health.
type JanitorMetrics struct {
	runs     *prometheus.CounterVec
	duration *prometheus.HistogramVec
	errors   *prometheus.CounterVec
	evicted  *prometheus.CounterVec
}

func NewJanitorMetrics(reg prometheus.Registerer, cfg Config) *JanitorMetrics {
	labels := constLabels(cfg)
	m := &JanitorMetrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "ynmops_janitor_job_runs_total",
			Help:        "Janitor job runs by name.",
			ConstLabels: labels,
		}, []string{"job"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "ynmops_janitor_job_duration_seconds",
			Help:        "Janitor job latency.",
			Buckets:     []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			ConstLabels: labels,
		}, []string{"job"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "ynmops_janitor_job_errors_total",
			Help:        "Janitor job errors by low-cardinality reason.",
			ConstLabels: labels,
		}, []string{"job", "reason"}),
		evicted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "ynmops_janitor_evicted_total",
			Help:        "Expired entries removed by the janitor.",
			ConstLabels: labels,
		}, []string{"job"}),
	}
	reg.MustRegister(m.runs, m.duration, m.errors, m.evicted)
	return m
}

func (m *JanitorMetrics) ObserveRun(job string, d time.Duration, evicted int, err error) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(job).Inc()
	m.duration.WithLabelValues(job).Observe(d.Seconds())
	if evicted > 0 {
		m.evicted.WithLabelValues(job).Add(float64(evicted))
	}
	if err != nil {
		m.errors.WithLabelValues(job, ClassifyJobReason(err)).Inc()
	}
}

// ClassifyJobReason maps an error to a bounded reason label.
func ClassifyJobReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded):
		return JobReasonDeadlineExceeded
	case errors.Is(err, context.Canceled):
		return JobReasonCanceled
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return JobReasonUniqueViolation
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "55P03":
			return JobReasonDBLockTimeout
		case "23505":
			return JobReasonUniqueViolation
		}
	}
	return JobReasonUnknown
}
