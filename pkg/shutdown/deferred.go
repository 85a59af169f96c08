package shutdown

import (
	"runtime/debug"
	"sync"
)

// Awaitable is the outcome of an asynchronous cleanup. Done is closed once
// the outcome is known; Err then reports nil for success or the failure.
type Awaitable interface {
	Done() <-chan struct{}
	Err() error
}

// Status is the settlement state of a Deferred.
type Status int

const (
	// StatusPending means the result is not known yet.
	StatusPending Status = iota
	// StatusFulfilled means the cleanup succeeded.
	StatusFulfilled
	// StatusRejected means the cleanup failed; Err holds the reason.
	StatusRejected
)

func (s Status) String() string {
	switch s {
	case StatusFulfilled:
		return "fulfilled"
	case StatusRejected:
		return "rejected"
	default:
		return "pending"
	}
}

// Deferred is a result that settles exactly once, either fulfilled or
// rejected. The zero value is not usable; call NewDeferred.
type Deferred struct {
	once   sync.Once
	done   chan struct{}
	mu     sync.RWMutex
	status Status
	err    error
}

// NewDeferred returns a pending Deferred.
func NewDeferred() *Deferred {
	return &Deferred{done: make(chan struct{})}
}

// Resolved returns an already fulfilled Deferred.
func Resolved() *Deferred {
	d := NewDeferred()
	d.Resolve()
	return d
}

// Rejected returns an already rejected Deferred.
func Rejected(err error) *Deferred {
	d := NewDeferred()
	d.Reject(err)
	return d
}

// Go runs fn on its own goroutine. The returned Deferred is rejected with the
// error fn returns, or with a *PanicError if fn panics.
func Go(fn func() error) *Deferred {
	d := NewDeferred()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				d.Reject(&PanicError{Value: r, Stack: debug.Stack()})
			}
		}()

		if err := fn(); err != nil {
			d.Reject(err)
			return
		}
		d.Resolve()
	}()
	return d
}

// Resolve fulfills d. Calls after the first settlement are ignored.
func (d *Deferred) Resolve() {
	d.settle(StatusFulfilled, nil)
}

// Reject settles d as failed. A nil err is replaced by ErrRejected so that a
// rejection is never mistaken for success.
func (d *Deferred) Reject(err error) {
	if err == nil {
		err = ErrRejected
	}
	d.settle(StatusRejected, err)
}

func (d *Deferred) settle(status Status, err error) {
	d.once.Do(func() {
		d.mu.Lock()
		d.status = status
		d.err = err
		d.mu.Unlock()
		close(d.done)
	})
}

// Done is closed when d settles.
func (d *Deferred) Done() <-chan struct{} {
	return d.done
}

// Err returns the rejection reason, or nil while pending or once fulfilled.
func (d *Deferred) Err() error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.err
}

// Status returns the current settlement state.
func (d *Deferred) Status() Status {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.status
}

// Wait blocks until d settles and returns its error.
func (d *Deferred) Wait() error {
	<-d.done
	return d.Err()
}

// fromChannel adapts a handler result of type <-chan error. The first value
// received settles the Deferred; a close without a value counts as success.
func fromChannel(ch <-chan error) *Deferred {
	d := NewDeferred()
	go func() {
		err, ok := <-ch
		if ok && err != nil {
			d.Reject(err)
			return
		}
		d.Resolve()
	}()
	return d
}
