package rxtest

import (
	"github.com/joeycumines/go-reactive/rx"
)

// Observer is an rx.Observer that records every notification it receives,
// along with the virtual time it was received.
type Observer[T any] struct {
	scheduler *TestScheduler
	messages  []Recorded[T]
}

var _ rx.Observer[any] = (*Observer[any])(nil)

// CreateObserver returns a new recording Observer, timestamped using s.
func CreateObserver[T any](s *TestScheduler) *Observer[T] {
	if s == nil {
		panic(`rxtest: nil scheduler`)
	}
	return &Observer[T]{scheduler: s}
}

func (x *Observer[T]) OnNext(value T) {
	x.messages = append(x.messages, OnNext(x.scheduler.Clock(), value))
}

func (x *Observer[T]) OnError(err error) {
	x.messages = append(x.messages, OnError[T](x.scheduler.Clock(), err))
}

func (x *Observer[T]) OnCompleted() {
	x.messages = append(x.messages, OnCompleted[T](x.scheduler.Clock()))
}

// Messages returns the recorded notifications, in the order received.
func (x *Observer[T]) Messages() []Recorded[T] {
	return x.messages
}
