package resources

import (
	"context"
	"errors"
	"time"
)

type config struct {
	timeout time.Duration
}

// Option configures an adapter.
type Option func(*config)

// WithTimeout bounds the adapter's graceful stop. Zero means the stop waits
// as long as the client needs.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

func newConfig(opts []Option) config {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func (c config) context(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

// ignoreClosed drops the sentinel a client returns when it was already
// closed elsewhere.
func ignoreClosed(err error, closed ...error) error {
	for _, target := range closed {
		if errors.Is(err, target) {
			return nil
		}
	}
	return err
}
