package disposable

import (
	"sync"
	"sync/atomic"
)

type (
	// Disposable releases a resource, or cancels pending work.
	//
	// Implementations must tolerate concurrent and redundant calls to
	// Dispose, with only the first call having any effect.
	Disposable interface {
		Dispose()
	}

	// Flag is a Disposable that only records that it was disposed.
	// The zero value is ready to use.
	Flag struct {
		disposed atomic.Bool
	}

	action struct {
		fn   func()
		once sync.Once
	}

	empty struct{}
)

// New returns a Disposable that calls fn exactly once, on the first call to
// Dispose. A nil fn behaves like [Empty].
func New(fn func()) Disposable {
	if fn == nil {
		return empty{}
	}
	return &action{fn: fn}
}

// Empty returns a Disposable that does nothing.
func Empty() Disposable { return empty{} }

func (empty) Dispose() {}

func (x *action) Dispose() {
	x.once.Do(func() {
		fn := x.fn
		x.fn = nil
		fn()
	})
}

// Dispose marks the flag as disposed.
func (x *Flag) Dispose() { x.disposed.Store(true) }

// IsDisposed reports whether Dispose has been called.
func (x *Flag) IsDisposed() bool { return x.disposed.Load() }
