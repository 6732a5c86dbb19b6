package rx

import (
	"github.com/joeycumines/go-reactive/disposable"
)

type singleObserver[T any] struct {
	*sink[T]
	predicate func(value T) (bool, error)
	value     T
	seen      bool
}

// Single emits the only element of source, together with completion, once
// source completes.
//
// If source completes without any elements, it fails with ErrSequenceEmpty.
// If source emits a second element, it fails immediately with
// ErrSequenceContainsMoreThanOneElement, and the source subscription is
// disposed before the failure is delivered.
func Single[T any](source Observable[T]) Observable[T] {
	if source == nil {
		panic(nilArgument(`source`))
	}
	return single(source, nil)
}

// SingleWhere behaves like Single, considering only the elements for which
// predicate returns true. If predicate returns an error (or panics, see
// PanicError), the sequence fails with that error.
func SingleWhere[T any](source Observable[T], predicate func(value T) (bool, error)) Observable[T] {
	if source == nil {
		panic(nilArgument(`source`))
	}
	if predicate == nil {
		panic(nilArgument(`predicate`))
	}
	return single(source, predicate)
}

func single[T any](source Observable[T], predicate func(value T) (bool, error)) Observable[T] {
	return ObservableFunc[T](func(observer Observer[T]) disposable.Disposable {
		x := &singleObserver[T]{
			sink:      newSink(observer),
			predicate: predicate,
		}
		x.setUpstream(source.Subscribe(x))
		return x
	})
}

func (x *singleObserver[T]) OnNext(value T) {
	if x.stopped.Load() {
		return
	}

	if x.predicate != nil {
		ok, err := x.match(value)
		if err != nil {
			x.fail(err)
			return
		}
		if !ok {
			return
		}
	}

	if x.seen {
		x.fail(ErrSequenceContainsMoreThanOneElement)
		return
	}

	x.value = value
	x.seen = true
}

func (x *singleObserver[T]) OnCompleted() {
	if x.stopped.Load() {
		return
	}
	if !x.seen {
		x.sink.OnError(ErrSequenceEmpty)
		return
	}
	x.sink.OnNext(x.value)
	x.sink.OnCompleted()
}

// fail disposes upstream before delivering err, so the source observes the
// unsubscription during the delivery of the offending element.
func (x *singleObserver[T]) fail(err error) {
	x.upstream.Dispose()
	x.sink.OnError(err)
}

func (x *singleObserver[T]) match(value T) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			ok, err = false, &PanicError{Value: r}
		}
	}()
	return x.predicate(value)
}
