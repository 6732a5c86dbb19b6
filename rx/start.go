package rx

import (
	"github.com/joeycumines/go-reactive/scheduler"
)

// Unit is the value emitted by sequences that signal only that something
// happened, e.g. Start.
type Unit struct{}

// Start runs action on s (a new scheduler.Immediate if s is nil), exactly
// once, as soon as Start is called. The returned Observable emits Unit{} and
// completes, or fails with the error returned by action, replaying that
// outcome to every subscriber, regardless of when it subscribes.
//
// A panic raised by action is delivered as a *PanicError.
func Start(s scheduler.Scheduler, action func() error) Observable[Unit] {
	if action == nil {
		panic(nilArgument(`action`))
	}
	return StartFunc(s, func() (Unit, error) {
		return Unit{}, action()
	})
}

// StartFunc behaves like Start, emitting the value returned by fn.
func StartFunc[T any](s scheduler.Scheduler, fn func() (T, error)) Observable[T] {
	if fn == nil {
		panic(nilArgument(`fn`))
	}
	if s == nil {
		s = scheduler.NewImmediate()
	}

	subject := NewAsyncSubject[T]()

	if _, err := s.Schedule(func() {
		value, err := invokeStart(fn)
		if err != nil {
			subject.OnError(err)
			return
		}
		subject.OnNext(value)
		subject.OnCompleted()
	}); err != nil {
		subject.OnError(err)
	}

	// hides the Observer side of the subject
	return ObservableFunc[T](subject.Subscribe)
}

func invokeStart[T any](fn func() (T, error)) (value T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
		}
	}()
	return fn()
}
