// Package scheduler runs periodic maintenance jobs, such as evicting expired
// cache and rate-limit entries.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ynmsafety/ynmops/internal/clock"
	"github.com/ynmsafety/ynmops/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Job is one maintenance task. Run returns how many entries it removed.
type Job struct {
	Name string
	Run  func(ctx context.Context) (int, error)
}

// JobOut lets any module contribute a Job.
type JobOut struct {
	fx.Out

	Job Job `group:"janitor.jobs"`
}

// EvictJob wraps an in-memory EvictExpired method as a Job.
func EvictJob(name string, evict func() int) JobOut {
	return JobOut{Job: Job{
		Name: name,
		Run: func(context.Context) (int, error) {
			return evict(), nil
		},
	}}
}

var ErrInvalidConfig = errors.New("invalid_scheduler_config")

type Params struct {
	fx.In

	Log     *zap.Logger
	Config  Config
	Jobs    []Job                   `group:"janitor.jobs"`
	Metrics *metrics.JanitorMetrics `optional:"true"`
	Clock   clock.Clock             `optional:"true"`
}

type Scheduler struct {
	log     *zap.Logger
	cfg     Config
	jobs    []Job
	metrics *metrics.JanitorMetrics
	clock   clock.Clock

	mu   sync.Mutex
	cron *cron.Cron
}

func New(p Params) (*Scheduler, error) {
	if p.Log == nil {
		return nil, ErrInvalidConfig
	}
	cfg := p.Config.withDefaults()
	if _, err := cron.ParseStandard(cfg.Spec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	clk := p.Clock
	if clk == nil {
		clk = clock.System()
	}
	return &Scheduler{
		log:     p.Log.Named("scheduler").With(zap.String("component", "janitor")),
		cfg:     cfg,
		jobs:    p.Jobs,
		metrics: p.Metrics,
		clock:   clk,
	}, nil
}

func (s *Scheduler) runJob(parent context.Context, job Job) error {
	start := s.clock.Now()
	ctx, cancel := context.WithTimeout(parent, s.cfg.JobTimeout)
	defer cancel()

	evicted, err := job.Run(ctx)
	s.metrics.ObserveRun(job.Name, s.clock.Now().Sub(start), evicted, err)

	log := s.log.With(zap.String("job", job.Name))
	if err == nil {
		if evicted > 0 {
			log.Debug("job finished", zap.Int("evicted", evicted))
		}
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		log.Warn("job timed out",
			zap.Duration("timeout", s.cfg.JobTimeout),
			zap.Error(err),
		)
		return nil
	}
	return fmt.Errorf("%s: %w", job.Name, err)
}

// RunOnce runs every enabled job and joins their errors.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	var err error
	for _, job := range s.jobs {
		if s.isJobEnabled(job.Name) {
			err = errors.Join(err, s.runJob(ctx, job))
		}
	}
	return err
}

// Start schedules RunOnce on the configured cron spec.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron != nil {
		return nil
	}

	c := cron.New(cron.WithLocation(time.UTC))
	_, err := c.AddFunc(s.cfg.Spec, func() {
		if err := s.RunOnce(context.Background()); err != nil {
			s.log.Warn("janitor run failed", zap.Error(err))
		}
	})
	if err != nil {
		return err
	}
	c.Start()
	s.cron = c
	s.log.Info("janitor started", zap.String("spec", s.cfg.Spec), zap.Int("jobs", len(s.jobs)))
	return nil
}

// Stop halts scheduling and waits for a running pass to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()
	if c == nil {
		return nil
	}

	select {
	case <-c.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) isJobEnabled(jobName string) bool {
	// An empty list enables every job.
	if len(s.cfg.EnabledJobs) == 0 {
		return true
	}
	for _, enabled := range s.cfg.EnabledJobs {
		if strings.EqualFold(strings.TrimSpace(enabled), jobName) {
			return true
		}
	}
	return false
}
