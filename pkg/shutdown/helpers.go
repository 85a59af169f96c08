package shutdown

import (
	"context"

	"github.com/cenkalti/backoff/v4"
)

// Async runs fn on its own goroutine when the handler is invoked. The drain
// still waits for it before starting the next handler.
func Async(fn func(ctx context.Context) error) func(ctx context.Context) *Deferred {
	return func(ctx context.Context) *Deferred {
		return Go(func() error {
			return fn(ctx)
		})
	}
}

// Retry retries fn according to b. Only the last error is recorded when every
// attempt fails; wrap an error with backoff.Permanent to stop early.
func Retry(fn func(ctx context.Context) error, b backoff.BackOff) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return backoff.Retry(func() error {
			return fn(ctx)
		}, backoff.WithContext(b, ctx))
	}
}
