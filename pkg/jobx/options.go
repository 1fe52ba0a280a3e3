package jobx

import (
	"time"

	"github.com/Abraxas-365/passport/pkg/config"
)

// WorkerOptions configures the job processing client.
type WorkerOptions struct {
	Queues            []string
	Concurrency       int
	PollInterval      time.Duration
	ShutdownTimeout   time.Duration
	DequeueTimeout    time.Duration
	DefaultRetryDelay time.Duration
	MaxRetries        int
}

// OptionsFromConfig fills zero config values with defaults.
func OptionsFromConfig(cfg config.JobxConfig) WorkerOptions {
	o := WorkerOptions{
		Queues:            []string{cfg.Queue},
		Concurrency:       cfg.Concurrency,
		PollInterval:      cfg.PollInterval,
		ShutdownTimeout:   cfg.ShutdownTimeout,
		DequeueTimeout:    cfg.DequeueTimeout,
		DefaultRetryDelay: cfg.DefaultRetryDelay,
		MaxRetries:        cfg.MaxRetries,
	}
	if cfg.Queue == "" {
		o.Queues = []string{"default"}
	}
	if o.Concurrency <= 0 {
		o.Concurrency = 2
	}
	if o.PollInterval <= 0 {
		o.PollInterval = time.Second
	}
	if o.ShutdownTimeout <= 0 {
		o.ShutdownTimeout = 30 * time.Second
	}
	if o.DequeueTimeout <= 0 {
		o.DequeueTimeout = 5 * time.Second
	}
	if o.DefaultRetryDelay <= 0 {
		o.DefaultRetryDelay = 30 * time.Second
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = 3
	}
	return o
}
