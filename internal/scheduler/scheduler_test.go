package scheduler

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/ynmsafety/ynmops/internal/cache"
	"github.com/ynmsafety/ynmops/internal/clock"
	"github.com/ynmsafety/ynmops/internal/observability/metrics"
	"go.uber.org/zap"
)

func newScheduler(t *testing.T, cfg Config, jobs ...Job) (*Scheduler, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	m := metrics.NewJanitorMetrics(reg, metrics.Config{ServiceName: "ynmops", Environment: "test"})
	s, err := New(Params{Log: zap.NewNop(), Config: cfg, Jobs: jobs, Metrics: m})
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}
	return s, reg
}

func TestRunOnceEvictsExpiredEntries(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))
	c := cache.NewTTLCache[string, int](clk)
	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Hour)

	s, reg := newScheduler(t, Config{}, EvictJob("catalog_cache", c.EvictExpired).Job)

	clk.Advance(2 * time.Minute)
	if err := s.RunOnce(context.Background()); err != nil {
		t.Fatalf("run once: %v", err)
	}
	if got := c.Len(); got != 1 {
		t.Fatalf("expected 1 entry left, got %d", got)
	}
	expected := `
# HELP ynmops_janitor_evicted_total Expired entries removed by the janitor.
# TYPE ynmops_janitor_evicted_total counter
ynmops_janitor_evicted_total{env="test",job="catalog_cache",service="ynmops"} 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "ynmops_janitor_evicted_total"); err != nil {
		t.Fatalf("unexpected metrics: %v", err)
	}
}

func TestRunJobTimeoutIsNotAnError(t *testing.T) {
	s, reg := newScheduler(t, Config{JobTimeout: 5 * time.Millisecond})
	err := s.runJob(context.Background(), Job{Name: "slow", Run: func(ctx context.Context) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	}})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	count, err := testutil.GatherAndCount(reg, "ynmops_janitor_job_errors_total")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one error series, got %d", count)
	}
}

func TestRunOnceJoinsErrors(t *testing.T) {
	boom := errors.New("boom")
	s, _ := newScheduler(t, Config{},
		Job{Name: "a", Run: func(context.Context) (int, error) { return 0, boom }},
		Job{Name: "b", Run: func(context.Context) (int, error) { return 3, nil }},
	)
	err := s.RunOnce(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestEnabledJobsFilter(t *testing.T) {
	ran := map[string]bool{}
	job := func(name string) Job {
		return Job{Name: name, Run: func(context.Context) (int, error) {
			ran[name] = true
			return 0, nil
		}}
	}
	s, _ := newScheduler(t, Config{EnabledJobs: []string{"Rate_Limits"}}, job("catalog_cache"), job("rate_limits"))
	if err := s.RunOnce(context.Background()); err != nil {
		t.Fatalf("run once: %v", err)
	}
	if ran["catalog_cache"] || !ran["rate_limits"] {
		t.Fatalf("unexpected jobs ran: %v", ran)
	}
}

func TestNewRejectsBadSpec(t *testing.T) {
	_, err := New(Params{Log: zap.NewNop(), Config: Config{Spec: "every minute"}})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected invalid config, got %v", err)
	}
}

func TestStartStop(t *testing.T) {
	s, _ := newScheduler(t, Config{Spec: "@every 1h"})
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("second start: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}
}
