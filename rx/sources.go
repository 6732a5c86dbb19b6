package rx

import (
	"github.com/joeycumines/go-reactive/disposable"
	"github.com/joeycumines/go-reactive/scheduler"
)

// Return emits value, then completes, in a single action on s.
func Return[T any](s scheduler.Scheduler, value T) Observable[T] {
	return scheduled(s, func(observer Observer[T]) {
		observer.OnNext(value)
		observer.OnCompleted()
	})
}

// Empty completes, without emitting any values, on s.
func Empty[T any](s scheduler.Scheduler) Observable[T] {
	return scheduled(s, func(observer Observer[T]) {
		observer.OnCompleted()
	})
}

// Throw fails with err, on s.
func Throw[T any](s scheduler.Scheduler, err error) Observable[T] {
	if err == nil {
		panic(nilArgument(`err`))
	}
	return scheduled(s, func(observer Observer[T]) {
		observer.OnError(err)
	})
}

// FromSlice emits each of values, then completes. Each value is emitted by a
// separate action on s, so other work may interleave, and disposing the
// subscription stops emission before the next value.
func FromSlice[T any](s scheduler.Scheduler, values []T) Observable[T] {
	if s == nil {
		panic(nilArgument(`scheduler`))
	}
	return ObservableFunc[T](func(observer Observer[T]) disposable.Disposable {
		out := newSink(observer)
		var i int
		d, err := scheduler.Recursive(s, func(again func() error) {
			if i >= len(values) {
				out.OnCompleted()
				return
			}
			value := values[i]
			i++
			out.OnNext(value)
			if err := again(); err != nil {
				out.OnError(err)
			}
		})
		if err != nil {
			out.OnError(err)
			return out
		}
		out.setUpstream(d)
		return out
	})
}

// scheduled returns an Observable that runs emit as a single action on s,
// for each subscription. Scheduling failures are delivered as OnError.
func scheduled[T any](s scheduler.Scheduler, emit func(observer Observer[T])) Observable[T] {
	if s == nil {
		panic(nilArgument(`scheduler`))
	}
	return ObservableFunc[T](func(observer Observer[T]) disposable.Disposable {
		out := newSink(observer)
		d, err := s.Schedule(func() { emit(out) })
		if err != nil {
			out.OnError(err)
			return out
		}
		out.setUpstream(d)
		return out
	})
}
