package shutdown

import (
	"context"
	"errors"
	"io"
	"os"
)

// Config holds the collaborators and settings of a Queue.
type Config struct {
	// ServiceName is attached to every log entry and span.
	ServiceName string

	// Signals that trigger ExitGracefully. Defaults to the platform set
	// returned by DefaultSignals.
	Signals []os.Signal

	// DisableSignals skips signal wiring entirely; ExitGracefully must then
	// be called by the owner.
	DisableSignals bool

	// Notifier subscribes the queue to process signals.
	Notifier Notifier

	// ExitFunc terminates the process with the failure count.
	ExitFunc func(code int)

	// Terminal receives a carriage return on interrupt so that log output
	// does not start after the echoed ^C. Nil disables it.
	Terminal io.Writer

	// BaseContext is passed to handlers that accept a context. It is never
	// cancelled by the queue.
	BaseContext context.Context
}

// DefaultConfig returns the process-wide defaults: platform signals, os.Exit
// and standard output as the terminal.
func DefaultConfig() *Config {
	return &Config{
		ServiceName: "graceful",
		Signals:     DefaultSignals(),
		Notifier:    osNotifier{},
		ExitFunc:    os.Exit,
		Terminal:    os.Stdout,
		BaseContext: context.Background(),
	}
}

// Validate checks that every required collaborator is present.
func (c *Config) Validate() error {
	if c.ServiceName == "" {
		return errors.New("service name is required")
	}

	if c.ExitFunc == nil {
		return errors.New("exit function cannot be nil")
	}

	if c.BaseContext == nil {
		return errors.New("base context cannot be nil")
	}

	if c.DisableSignals {
		return nil
	}

	if c.Notifier == nil {
		return errors.New("signal notifier cannot be nil")
	}

	if len(c.Signals) == 0 {
		return errors.New("at least one signal is required when signals are enabled")
	}

	for _, sig := range c.Signals {
		if sig == nil {
			return errors.New("signals cannot contain nil")
		}
	}

	return nil
}
