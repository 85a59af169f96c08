package shutdown

import (
	"context"
	"io"
	"os"
)

// Option configures a Queue.
type Option func(*Config)

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(c *Config) {
		*c = cfg
	}
}

// WithServiceName sets the service name attached to logs and spans.
func WithServiceName(name string) Option {
	return func(c *Config) {
		c.ServiceName = name
	}
}

// WithSignals overrides the signals that trigger a graceful exit.
func WithSignals(signals ...os.Signal) Option {
	return func(c *Config) {
		c.Signals = signals
	}
}

// WithoutSignals disables signal wiring.
func WithoutSignals() Option {
	return func(c *Config) {
		c.DisableSignals = true
	}
}

// WithNotifier replaces the os/signal backed notifier.
func WithNotifier(n Notifier) Option {
	return func(c *Config) {
		c.Notifier = n
	}
}

// WithExitFunc replaces os.Exit, typically in tests or when the owner wants
// to decide the final status itself.
func WithExitFunc(fn func(code int)) Option {
	return func(c *Config) {
		c.ExitFunc = fn
	}
}

// WithTerminal sets the writer that receives the carriage return on
// interrupt. Nil disables it.
func WithTerminal(w io.Writer) Option {
	return func(c *Config) {
		c.Terminal = w
	}
}

// WithBaseContext sets the context passed to context-aware handlers.
func WithBaseContext(ctx context.Context) Option {
	return func(c *Config) {
		c.BaseContext = ctx
	}
}
