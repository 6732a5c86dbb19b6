package rx

import (
	"github.com/joeycumines/go-reactive/disposable"
)

type (
	// Observable is a push-based sequence of values, see the package docs.
	Observable[T any] interface {
		// Subscribe attaches observer, returning a Disposable that detaches
		// it. Subscribe panics if observer is nil.
		Subscribe(observer Observer[T]) disposable.Disposable
	}

	// ObservableFunc implements Observable using a func.
	ObservableFunc[T any] func(observer Observer[T]) disposable.Disposable
)

func (f ObservableFunc[T]) Subscribe(observer Observer[T]) disposable.Disposable {
	if observer == nil {
		panic(nilArgument(`observer`))
	}
	if d := f(observer); d != nil {
		return d
	}
	return disposable.Empty()
}

// Create returns an Observable that calls subscribe for each subscription.
//
// The observer passed to subscribe enforces the protocol, so notifications
// after a terminal notification, or after the subscription was disposed, are
// dropped. The Disposable returned by subscribe (which may be nil) is
// disposed after the first terminal notification, or when the subscription
// is disposed.
func Create[T any](subscribe func(observer Observer[T]) disposable.Disposable) Observable[T] {
	if subscribe == nil {
		panic(nilArgument(`subscribe`))
	}
	return ObservableFunc[T](func(observer Observer[T]) disposable.Disposable {
		s := newSink(observer)
		s.setUpstream(subscribe(s))
		return s
	})
}
