package rx

import (
	"context"
)

// ToSlice subscribes to source, blocking until it terminates, returning the
// emitted values, or the error it failed with. If ctx is done first, the
// subscription is disposed, and ctx.Err() is returned.
func ToSlice[T any](ctx context.Context, source Observable[T]) ([]T, error) {
	if source == nil {
		panic(nilArgument(`source`))
	}

	var (
		values []T
		err    error
		done   = make(chan struct{})
	)

	out := newSink(NewObserver(
		func(value T) { values = append(values, value) },
		func(e error) {
			err = e
			close(done)
		},
		func() { close(done) },
	))
	out.setUpstream(source.Subscribe(out))

	select {
	case <-done:
		return values, err
	case <-ctx.Done():
		out.Dispose()
		return nil, ctx.Err()
	}
}
