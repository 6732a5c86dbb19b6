package rx

import (
	"sync"

	"github.com/joeycumines/go-reactive/disposable"
)

type (
	// AsyncSubject is both an Observer and an Observable. It retains only
	// the last value it receives, which it emits (along with completion) to
	// every observer, once it completes. Observers that subscribe after
	// termination receive the same outcome, immediately.
	AsyncSubject[T any] struct {
		mu        sync.Mutex
		observers []*asyncSubscription[T]
		value     T
		err       error
		hasValue  bool
		done      bool
	}

	asyncSubscription[T any] struct {
		subject  *AsyncSubject[T]
		observer Observer[T]
	}
)

var (
	_ Observer[any]   = (*AsyncSubject[any])(nil)
	_ Observable[any] = (*AsyncSubject[any])(nil)
)

// NewAsyncSubject initializes a new AsyncSubject.
func NewAsyncSubject[T any]() *AsyncSubject[T] {
	return &AsyncSubject[T]{}
}

// OnNext replaces the retained value, unless the subject has terminated.
func (x *AsyncSubject[T]) OnNext(value T) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if !x.done {
		x.value = value
		x.hasValue = true
	}
}

// OnError terminates the subject, failing all current and future observers.
// It panics if err is nil.
func (x *AsyncSubject[T]) OnError(err error) {
	if err == nil {
		panic(nilArgument(`err`))
	}
	x.terminate(err)
}

// OnCompleted terminates the subject, emitting the retained value (if any)
// and completion to all current and future observers.
func (x *AsyncSubject[T]) OnCompleted() {
	x.terminate(nil)
}

// Subscribe implements Observable.
func (x *AsyncSubject[T]) Subscribe(observer Observer[T]) disposable.Disposable {
	if observer == nil {
		panic(nilArgument(`observer`))
	}
	x.mu.Lock()
	if x.done {
		x.mu.Unlock()
		x.replay(observer)
		return disposable.Empty()
	}
	sub := &asyncSubscription[T]{subject: x, observer: observer}
	x.observers = append(x.observers, sub)
	x.mu.Unlock()
	return sub
}

func (x *AsyncSubject[T]) terminate(err error) {
	x.mu.Lock()
	if x.done {
		x.mu.Unlock()
		return
	}
	x.done = true
	x.err = err
	observers := x.observers
	x.observers = nil
	x.mu.Unlock()

	for _, sub := range observers {
		x.replay(sub.observer)
	}
}

// replay must only be called once done, at which point the outcome fields
// are immutable.
func (x *AsyncSubject[T]) replay(observer Observer[T]) {
	switch {
	case x.err != nil:
		observer.OnError(x.err)
	case x.hasValue:
		observer.OnNext(x.value)
		observer.OnCompleted()
	default:
		observer.OnCompleted()
	}
}

func (x *asyncSubscription[T]) Dispose() {
	s := x.subject
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.observers {
		if sub == x {
			s.observers = append(s.observers[:i], s.observers[i+1:]...)
			return
		}
	}
}
