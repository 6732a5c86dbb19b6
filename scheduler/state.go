package scheduler

import (
	"sync/atomic"
)

// LoopState represents the lifecycle state of an EventLoop.
//
//	StateRunning → StateDisposed   [Dispose(), Shutdown(), or an action panic]
//	StateDisposed → (terminal)
type LoopState uint32

const (
	// StateRunning indicates the event loop accepts and runs work.
	StateRunning LoopState = iota
	// StateDisposed indicates the event loop has been torn down. Queued work
	// was discarded, and new work is rejected with ErrDisposed.
	StateDisposed
)

// String returns a human-readable representation of the state.
func (s LoopState) String() string {
	switch s {
	case StateRunning:
		return `Running`
	case StateDisposed:
		return `Disposed`
	default:
		return `Unknown`
	}
}

// loopState is a lock-free state cell, read without the loop's mutex.
type loopState struct {
	v atomic.Uint32
}

func (s *loopState) Load() LoopState {
	return LoopState(s.v.Load())
}

// TryTransition attempts to atomically transition from one state to another.
func (s *loopState) TryTransition(from, to LoopState) bool {
	return s.v.CompareAndSwap(uint32(from), uint32(to))
}
