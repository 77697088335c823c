package scheduler

import (
	"strings"
	"time"

	"github.com/ynmsafety/ynmops/internal/config"
)

// Config controls the janitor schedule.
type Config struct {
	// Spec is a robfig/cron schedule, e.g. "@every 1m".
	Spec        string
	JobTimeout  time.Duration
	EnabledJobs []string
}

func DefaultConfig() Config {
	return Config{
		Spec:       "@every 1m",
		JobTimeout: 30 * time.Second,
	}
}

func ProvideConfig(cfg config.Config) Config {
	return Config{
		Spec:        strings.TrimSpace(cfg.Cache.JanitorSpec),
		EnabledJobs: cfg.Cache.JanitorJobs,
	}.withDefaults()
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.Spec == "" {
		c.Spec = defaults.Spec
	}
	if c.JobTimeout <= 0 {
		c.JobTimeout = defaults.JobTimeout
	}
	return c
}
