package shutdown

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidHandler is matched by every *InvalidHandlerError.
	ErrInvalidHandler = errors.New("expected a function for shutdown handler")

	// ErrRejected is recorded when a deferred result is rejected without a reason.
	ErrRejected = errors.New("deferred result rejected")

	// ErrDrainInProgress is returned by Drain while another drain is running.
	ErrDrainInProgress = errors.New("drain already in progress")
)

// InvalidHandlerError is returned by Register when the argument cannot be
// invoked without arguments.
type InvalidHandlerError struct {
	Type string // dynamic type of the rejected value
}

func (e *InvalidHandlerError) Error() string {
	return fmt.Sprintf("%s: got %s", ErrInvalidHandler.Error(), e.Type)
}

func (e *InvalidHandlerError) Is(target error) bool {
	return target == ErrInvalidHandler
}

// HandlerError is the failure recorded for one handler during a drain.
type HandlerError struct {
	Name     string // handler name given at registration, or handler-<position>
	Position int    // 1-based registration position
	Err      error  // what the handler returned, rejected with or panicked with
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("shutdown handler %q (#%d) failed: %v", e.Name, e.Position, e.Err)
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}

// PanicError wraps a value recovered from a panicking handler.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap exposes the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
