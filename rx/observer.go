package rx

type (
	// Observer receives notifications from an Observable.
	Observer[T any] interface {
		OnNext(value T)
		OnError(err error)
		OnCompleted()
	}

	// ObserverFuncs implements Observer using optional funcs. Nil funcs
	// ignore the corresponding notification.
	ObserverFuncs[T any] struct {
		Next      func(value T)
		Error     func(err error)
		Completed func()
	}
)

var _ Observer[any] = ObserverFuncs[any]{}

// NewObserver returns an Observer that calls the given funcs, any of which
// may be nil.
func NewObserver[T any](next func(value T), err func(err error), completed func()) Observer[T] {
	return ObserverFuncs[T]{Next: next, Error: err, Completed: completed}
}

func (x ObserverFuncs[T]) OnNext(value T) {
	if x.Next != nil {
		x.Next(value)
	}
}

func (x ObserverFuncs[T]) OnError(err error) {
	if x.Error != nil {
		x.Error(err)
	}
}

func (x ObserverFuncs[T]) OnCompleted() {
	if x.Completed != nil {
		x.Completed()
	}
}
