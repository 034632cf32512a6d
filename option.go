package quartzcron

import (
	"time"

	"k8s.io/utils/clock"
)

// Option represents a modification to the default behavior of a Cron.
type Option func(*Cron)

// WithLocation sets the location used for expressions without a TZ prefix.
func WithLocation(loc *time.Location) Option {
	return func(c *Cron) {
		c.location = loc
	}
}

// WithChain specifies Job wrappers to apply to all jobs added to this cron.
func WithChain(wrappers ...JobWrapper) Option {
	return func(c *Cron) {
		c.chain = NewChain(wrappers...)
	}
}

// WithLogger uses the provided logger.
func WithLogger(logger Logger) Option {
	return func(c *Cron) {
		c.logger = logger
	}
}

// WithClock replaces the real clock. Tests pass a fake clock from
// k8s.io/utils/clock/testing to drive the runner deterministically:
//
//	fc := clocktesting.NewFakeClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
//	c := quartzcron.New(quartzcron.WithClock(fc))
//	c.Start()
//	fc.Step(time.Second)
func WithClock(clk clock.Clock) Option {
	return func(c *Cron) {
		c.clock = clk
	}
}

// WithObservability installs lifecycle hooks, for example the ones returned
// by NewPrometheusHooks.
func WithObservability(hooks ObservabilityHooks) Option {
	return func(c *Cron) {
		c.hooks = &hooks
	}
}
