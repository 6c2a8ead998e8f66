// internal/workers/flights/check-flight-deals/config.go
package checkflightdeals

import (
	"time"

	"flight-deals/internal/common/config"
)

type Config struct {
	// JobTimeout is the lease Zeebe grants the worker on an activated job.
	JobTimeout time.Duration
	// RunTimeout bounds the deal check itself and is always shorter than
	// JobTimeout, so the outcome is reported while the lease is still held.
	RunTimeout time.Duration
	// CommandTimeout bounds the complete and throw-error calls.
	CommandTimeout time.Duration
	MaxJobsActive  int
}

// ConfigFromAppConfig reads the job timeout from camunda.job_timeout. A run
// walks every destination sequentially, so only one job is active at a time.
func ConfigFromAppConfig(cfg *config.Config) *Config {
	jobTimeout := config.GetDuration(cfg.Camunda.JobTimeout)
	if jobTimeout <= 0 {
		jobTimeout = 10 * time.Minute
	}
	return &Config{
		JobTimeout:     jobTimeout,
		RunTimeout:     jobTimeout - jobTimeout/10,
		CommandTimeout: 10 * time.Second,
		MaxJobsActive:  1,
	}
}
