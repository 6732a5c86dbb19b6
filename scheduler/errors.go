package scheduler

import (
	"errors"
)

var (
	// ErrInvalidArgument is the base error for precondition failures, such
	// as a nil action, or a negative period. Such errors are always returned
	// synchronously, and the offending work is never queued.
	ErrInvalidArgument = errors.New(`scheduler: invalid argument`)

	// ErrDisposed is returned when scheduling work on a scheduler that has
	// been torn down.
	ErrDisposed = errors.New(`scheduler: disposed`)

	// ErrReentrantShutdown is returned by EventLoop.Shutdown, if it is called
	// from the event loop's own worker goroutine, which would deadlock.
	ErrReentrantShutdown = errors.New(`scheduler: cannot wait for shutdown from the event loop goroutine`)
)

// ArgumentError describes an invalid argument. It unwraps to
// [ErrInvalidArgument].
type ArgumentError struct {
	// Name is the name of the offending argument.
	Name string
	// Message describes the problem, e.g. "must not be nil".
	Message string
}

// Error implements the error interface.
func (e *ArgumentError) Error() string {
	switch {
	case e.Name == ``:
		return ErrInvalidArgument.Error()
	case e.Message == ``:
		return ErrInvalidArgument.Error() + `: ` + e.Name
	default:
		return ErrInvalidArgument.Error() + `: ` + e.Name + ` ` + e.Message
	}
}

// Unwrap returns [ErrInvalidArgument].
func (e *ArgumentError) Unwrap() error {
	return ErrInvalidArgument
}

func nilArgument(name string) error {
	return &ArgumentError{Name: name, Message: `must not be nil`}
}

func negativeArgument(name string) error {
	return &ArgumentError{Name: name, Message: `must not be negative`}
}
