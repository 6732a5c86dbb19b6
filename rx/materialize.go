package rx

import (
	"github.com/joeycumines/go-reactive/disposable"
)

type materializeObserver[T any] struct {
	*sink[Notification[T]]
}

// Materialize converts every notification of source into a value, emitting
// the terminal notification as the last value, before completing.
func Materialize[T any](source Observable[T]) Observable[Notification[T]] {
	if source == nil {
		panic(nilArgument(`source`))
	}
	return ObservableFunc[Notification[T]](func(observer Observer[Notification[T]]) disposable.Disposable {
		x := materializeObserver[T]{newSink(observer)}
		x.setUpstream(source.Subscribe(x))
		return x
	})
}

func (x materializeObserver[T]) OnNext(value T) {
	x.sink.OnNext(NextNotification(value))
}

func (x materializeObserver[T]) OnError(err error) {
	x.sink.OnNext(ErrorNotification[T](err))
	x.sink.OnCompleted()
}

func (x materializeObserver[T]) OnCompleted() {
	x.sink.OnNext(CompletedNotification[T]())
	x.sink.OnCompleted()
}
