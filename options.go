package entangle

import "time"

type config struct {
	debounce   time.Duration
	latestOnly bool
}

// Option configures a molecule, async molecule or effect.
type Option func(*config)

// WithDebounce coalesces source changes arriving within d into a single
// trailing re-run.
func WithDebounce(d time.Duration) Option {
	return func(c *config) {
		c.debounce = d
	}
}

// WithLatestOnly makes an async molecule drop results from derivations that
// were superseded before they resolved. Other nodes ignore it.
func WithLatestOnly() Option {
	return func(c *config) {
		c.latestOnly = true
	}
}

func newConfig(opts []Option) *config {
	c := &config{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
