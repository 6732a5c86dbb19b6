package rx

import (
	"sync/atomic"

	"github.com/joeycumines/go-reactive/disposable"
)

// sink forwards notifications to a downstream observer, until the first
// terminal notification, or until disposed. Operators embed it, overriding
// the Observer methods they transform.
type sink[T any] struct {
	downstream Observer[T]
	upstream   disposable.SingleAssignment
	stopped    atomic.Bool
}

func newSink[T any](downstream Observer[T]) *sink[T] {
	return &sink[T]{downstream: downstream}
}

// setUpstream assigns the upstream subscription, which is disposed along
// with the sink (immediately, if the sink is already stopped).
func (x *sink[T]) setUpstream(d disposable.Disposable) {
	x.upstream.Set(d)
}

func (x *sink[T]) OnNext(value T) {
	if !x.stopped.Load() {
		x.downstream.OnNext(value)
	}
}

func (x *sink[T]) OnError(err error) {
	if x.stopped.CompareAndSwap(false, true) {
		x.downstream.OnError(err)
		x.upstream.Dispose()
	}
}

func (x *sink[T]) OnCompleted() {
	if x.stopped.CompareAndSwap(false, true) {
		x.downstream.OnCompleted()
		x.upstream.Dispose()
	}
}

// Dispose detaches the downstream observer, and disposes upstream.
func (x *sink[T]) Dispose() {
	x.stopped.Store(true)
	x.upstream.Dispose()
}
