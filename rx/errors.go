package rx

import (
	"errors"
	"fmt"

	"github.com/joeycumines/go-reactive/scheduler"
)

var (
	// ErrSequenceEmpty is delivered by operators that require at least one
	// element, such as Single, when the source completes without any.
	ErrSequenceEmpty = errors.New(`rx: sequence contains no elements`)

	// ErrSequenceContainsMoreThanOneElement is delivered by Single, as soon
	// as a second (matching) element is observed.
	ErrSequenceContainsMoreThanOneElement = errors.New(`rx: sequence contains more than one element`)
)

// PanicError wraps a value recovered from a panic raised by user code, such
// as a predicate, or a Start computation.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf(`rx: recovered panic: %v`, e.Value)
}

// Unwrap returns the panic value, if it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

func nilArgument(name string) error {
	return &scheduler.ArgumentError{Name: name, Message: `must not be nil`}
}
